package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	v2 "github.com/telhawk-systems/ldadapter/internal/models/v2"
	"github.com/telhawk-systems/ldadapter/internal/translator"
)

func newTranslateCmd() *cobra.Command {
	translateCmd := &cobra.Command{
		Use:   "translate",
		Short: "Translate v2 documents to NGSI-LD offline",
		Long: `Reads a v2 document from --file (or stdin) and prints its NGSI-LD
equivalent. No broker is contacted.`,
		Example: `  curl -s http://orion:1026/v2/entities | ldadapter translate entity
  ldadapter translate subscription --file sub.json --ld -o yaml
  ldadapter translate types --file types.json --type Room`,
	}

	translateCmd.PersistentFlags().StringP("file", "f", "-", "input file, - for stdin")
	translateCmd.PersistentFlags().Bool("ld", false, "emit @context in the body")
	translateCmd.PersistentFlags().String("context", translator.DefaultContextURL, "@context URL")

	entityCmd := &cobra.Command{
		Use:   "entity",
		Short: "Translate an entity or a list of entities",
		Args:  cobra.NoArgs,
		RunE:  runTranslateEntity,
	}
	entityCmd.Flags().Bool("concise", false, "concise attribute form")
	entityCmd.Flags().Bool("sysattrs", false, "add createdAt and modifiedAt")
	entityCmd.Flags().Bool("keyvalues", false, "input is in v2 keyValues form")

	subscriptionCmd := &cobra.Command{
		Use:   "subscription",
		Short: "Translate a subscription or a list of subscriptions",
		Args:  cobra.NoArgs,
		RunE:  runTranslateSubscription,
	}

	typesCmd := &cobra.Command{
		Use:   "types",
		Short: "Translate a GET /v2/types response",
		Args:  cobra.NoArgs,
		RunE:  runTranslateTypes,
	}
	typesCmd.Flags().String("type", "", "describe a single type")
	typesCmd.Flags().Bool("details", false, "one element per type")

	attributesCmd := &cobra.Command{
		Use:   "attributes",
		Short: "Derive the attribute listing from a GET /v2/types response",
		Args:  cobra.NoArgs,
		RunE:  runTranslateAttributes,
	}
	attributesCmd.Flags().String("attr", "", "describe a single attribute")
	attributesCmd.Flags().Bool("details", false, "one element per attribute")

	notificationCmd := &cobra.Command{
		Use:   "notification",
		Short: "Translate a notification payload",
		Args:  cobra.NoArgs,
		RunE:  runTranslateNotification,
	}

	translateCmd.AddCommand(entityCmd, subscriptionCmd, typesCmd, attributesCmd, notificationCmd)
	return translateCmd
}

func newTranslator(cmd *cobra.Command) *translator.Translator {
	contextURL, _ := cmd.Flags().GetString("context")
	return translator.New(translator.Settings{ContextURL: contextURL})
}

func readInput(cmd *cobra.Command) ([]byte, error) {
	path, _ := cmd.Flags().GetString("file")
	var (
		data []byte
		err  error
	)
	if path == "-" || path == "" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("no input provided")
	}
	return data, nil
}

func isArray(data []byte) bool {
	return len(data) > 0 && data[0] == '['
}

// decodeOneOrMany decodes either a single document or an array of them.
func decodeOneOrMany[T any](data []byte) ([]T, bool, error) {
	if isArray(data) {
		var list []T
		if err := v2.Decode(data, &list); err != nil {
			return nil, true, fmt.Errorf("invalid input: %w", err)
		}
		return list, true, nil
	}
	var one T
	if err := v2.Decode(data, &one); err != nil {
		return nil, false, fmt.Errorf("invalid input: %w", err)
	}
	return []T{one}, false, nil
}

func runTranslateEntity(cmd *cobra.Command, _ []string) error {
	data, err := readInput(cmd)
	if err != nil {
		return err
	}
	tr := newTranslator(cmd)
	linkedData, _ := cmd.Flags().GetBool("ld")
	concise, _ := cmd.Flags().GetBool("concise")
	sysAttrs, _ := cmd.Flags().GetBool("sysattrs")
	keyValues, _ := cmd.Flags().GetBool("keyvalues")

	out := []any{}
	var many bool
	if keyValues {
		list, isList, err := decodeOneOrMany[v2.KeyValuesEntity](data)
		if err != nil {
			return err
		}
		many = isList
		for _, e := range list {
			out = append(out, tr.KeyValues(e, linkedData))
		}
	} else {
		list, isList, err := decodeOneOrMany[v2.Entity](data)
		if err != nil {
			return err
		}
		many = isList
		flags := translator.Flags{Concise: concise, SysAttrs: sysAttrs}
		for _, e := range list {
			out = append(out, tr.Entity(e, linkedData, flags))
		}
	}
	return renderOneOrMany(cmd, out, many)
}

func runTranslateSubscription(cmd *cobra.Command, _ []string) error {
	data, err := readInput(cmd)
	if err != nil {
		return err
	}
	linkedData, _ := cmd.Flags().GetBool("ld")
	list, many, err := decodeOneOrMany[v2.Subscription](data)
	if err != nil {
		return err
	}
	tr := newTranslator(cmd)
	out := make([]any, 0, len(list))
	for _, sub := range list {
		out = append(out, tr.Subscription(sub, linkedData))
	}
	return renderOneOrMany(cmd, out, many)
}

func runTranslateTypes(cmd *cobra.Command, _ []string) error {
	records, err := readTypeRecords(cmd)
	if err != nil {
		return err
	}
	tr := newTranslator(cmd)
	linkedData, _ := cmd.Flags().GetBool("ld")

	if name, _ := cmd.Flags().GetString("type"); name != "" {
		for _, rec := range records {
			if rec.Type == name {
				return render(cmd.OutOrStdout(), outputFormat(cmd), tr.EntityTypeInformation(name, rec, linkedData))
			}
		}
		return fmt.Errorf("type %q not found in input", name)
	}
	if details, _ := cmd.Flags().GetBool("details"); details {
		return render(cmd.OutOrStdout(), outputFormat(cmd), tr.EntityTypes(records, linkedData))
	}
	return render(cmd.OutOrStdout(), outputFormat(cmd), tr.EntityTypeList(records, linkedData))
}

func runTranslateAttributes(cmd *cobra.Command, _ []string) error {
	records, err := readTypeRecords(cmd)
	if err != nil {
		return err
	}
	tr := newTranslator(cmd)
	linkedData, _ := cmd.Flags().GetBool("ld")

	if name, _ := cmd.Flags().GetString("attr"); name != "" {
		attr, ok := tr.EntityAttribute(name, records, linkedData)
		if !ok {
			return fmt.Errorf("attribute %q not found in input", name)
		}
		return render(cmd.OutOrStdout(), outputFormat(cmd), attr)
	}
	if details, _ := cmd.Flags().GetBool("details"); details {
		return render(cmd.OutOrStdout(), outputFormat(cmd), tr.AttributeSummaries(records, linkedData))
	}
	return render(cmd.OutOrStdout(), outputFormat(cmd), tr.EntityAttributeList(records, linkedData))
}

func runTranslateNotification(cmd *cobra.Command, _ []string) error {
	data, err := readInput(cmd)
	if err != nil {
		return err
	}
	var n v2.Notification
	if err := v2.Decode(data, &n); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	linkedData, _ := cmd.Flags().GetBool("ld")
	return render(cmd.OutOrStdout(), outputFormat(cmd), newTranslator(cmd).Notification(n, time.Now(), linkedData))
}

func readTypeRecords(cmd *cobra.Command) ([]v2.TypeRecord, error) {
	data, err := readInput(cmd)
	if err != nil {
		return nil, err
	}
	var records []v2.TypeRecord
	if err := v2.Decode(data, &records); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	return records, nil
}

func renderOneOrMany(cmd *cobra.Command, out []any, many bool) error {
	if many {
		return render(cmd.OutOrStdout(), outputFormat(cmd), out)
	}
	return render(cmd.OutOrStdout(), outputFormat(cmd), out[0])
}
