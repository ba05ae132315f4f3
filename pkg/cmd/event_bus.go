package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/automaton-hq/automaton/pkg/channels/gochannel"
	"github.com/automaton-hq/automaton/pkg/channels/kafka"
	"github.com/automaton-hq/automaton/pkg/eventbus"
)

// NewEventBus builds the progress broadcasting transport. The kafka
// provider fans executions out to external consumers; gochannel keeps
// everything in-process.
func NewEventBus(provider, serviceName string, logger *slog.Logger) eventbus.EventBus {
	switch provider {
	case "kafka":
		pub, sub, err := kafka.CreateChannel(watermill.NewSlogLogger(logger), serviceName)
		if err != nil {
			panic(fmt.Errorf("failed to create Kafka pub/sub: %w", err))
		}

		return eventbus.NewWatermillEventBus(pub, sub)
	case "gochannel":
		channel := gochannel.CreateChannel(watermill.NewSlogLogger(logger))

		return eventbus.NewWatermillEventBus(channel, channel)
	default:
		panic("Unsupported event bus provider: " + provider)
	}
}
