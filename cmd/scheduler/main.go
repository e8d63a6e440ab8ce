package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corentintrosseille/doctolib-test/internal/logger"
	"github.com/corentintrosseille/doctolib-test/internal/rabbit"
	"github.com/corentintrosseille/doctolib-test/internal/storage"
	"github.com/corentintrosseille/doctolib-test/internal/storagebuilder"
	log "github.com/sirupsen/logrus"
)

var configFile string

func newMessage(event storage.Event) rabbit.Message {
	return rabbit.Message{
		ID:       event.ID,
		Kind:     event.Kind,
		StartsAt: event.StartsAt,
		EndsAt:   event.EndsAt,
	}
}

func init() {
	flag.StringVar(&configFile, "config", "./configs/scheduler_config.yaml", "Path to configuration file")
	log.SetFormatter(&log.TextFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.WarnLevel)
}

func main() {
	flag.Parse()

	config, err := NewConfig(configFile)
	if err != nil {
		log.Errorf("failed to start %v", err)
		return
	}
	err = logger.PrepareLogger(config.Logger)
	if err != nil {
		log.Errorf("failed to start %v", err)
		return
	}

	r := rabbit.New(config.Rabbit)
	if err := r.Connect(); err != nil {
		log.Errorf("failed to connect to rabbit: %v", err)
		return
	}
	defer r.Close()

	stor, err := storagebuilder.New(config.Storage)
	if err != nil {
		log.Errorf("failed to start %v", err)
		return
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
		defer cancel()
		stor.Close(ctx)
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	// Remind for appointments whose start falls inside the lead window; the
	// window advances on every tick so a start is reported once.
	startTime := time.Now().Add(config.Scheduler.RemindBefore)
	endTime := startTime.Add(config.Scheduler.CheckInterval)
	checkTicker := time.NewTicker(config.Scheduler.CheckInterval)
	removeTicker := time.NewTicker(5 * time.Minute)
	for {
		log.Debugf("get appointments starting between %s and %s", startTime, endTime)
		appointments, err := stor.ListAppointmentsStartingBetween(ctx, startTime, endTime)
		if err != nil {
			log.Errorf("failed to get appointments: %s", err)
		}
		for _, appointment := range appointments {
			log.Debugf("send reminder: %v", appointment)
			m := newMessage(appointment)
			data, _ := json.Marshal(m)
			if err := r.Publish(data); err != nil {
				log.Errorf("failed to publish reminder: %s", err)
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-checkTicker.C:
			startTime = endTime
			endTime = time.Now().Add(config.Scheduler.RemindBefore + config.Scheduler.CheckInterval)
		case <-removeTicker.C:
			if err := stor.RemoveEventsBefore(ctx, time.Now().Add(-config.Scheduler.Retention)); err != nil {
				log.Errorf("failed to purge old events: %s", err)
			}
		}
	}
}
