package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/ldadapter/internal/messaging"
	natsclient "github.com/telhawk-systems/ldadapter/internal/messaging/nats"
	"github.com/telhawk-systems/ldadapter/internal/translator"
)

// connectSubscriber is swapped in tests.
var connectSubscriber = func(url string) (messaging.Subscriber, error) {
	cfg := natsclient.DefaultConfig()
	cfg.URL = url
	cfg.Name = "ldadapter-watch"
	client, err := natsclient.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func newWatchCmd() *cobra.Command {
	watchCmd := &cobra.Command{
		Use:   "watch [subscriptionId]",
		Short: "Print relayed notifications published to NATS",
		Long: `Subscribes to the notification subjects the relay publishes to and
prints every LD notification received. Without a subscription id every
subscription is watched.`,
		Example: `  ldadapter watch
  ldadapter watch urn:ngsi-ld:Subscription:5f3a -o yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: runWatch,
	}
	watchCmd.Flags().String("nats-url", "", "override nats.url")
	watchCmd.Flags().String("subject-prefix", "", "override nats.subject_prefix")
	return watchCmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	url := cfg.NATS.URL
	if override, _ := cmd.Flags().GetString("nats-url"); override != "" {
		url = override
	}
	prefix := cfg.NATS.SubjectPrefix
	if override, _ := cmd.Flags().GetString("subject-prefix"); override != "" {
		prefix = override
	}

	subject := messaging.AllNotifications(prefix)
	if len(args) == 1 {
		subject = messaging.NotificationSubject(prefix, translator.SubscriptionID(args[0]))
	}

	sub, err := connectSubscriber(url)
	if err != nil {
		return err
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "watching %s on %s\n", subject, url)
	return watch(ctx, sub, subject, cmd.OutOrStdout(), outputFormat(cmd))
}

// watch prints notifications on subject until ctx is done.
func watch(ctx context.Context, sub messaging.Subscriber, subject string, w io.Writer, format string) error {
	subscription, err := sub.Subscribe(subject, func(_ context.Context, msg *messaging.Message) error {
		var doc any
		if err := json.Unmarshal(msg.Data, &doc); err != nil {
			return fmt.Errorf("decoding notification on %s: %w", msg.Subject, err)
		}
		return render(w, format, doc)
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", subject, err)
	}
	defer subscription.Unsubscribe()

	<-ctx.Done()
	return nil
}
