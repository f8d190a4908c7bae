package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/taskrules/internal/domain"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import contact documents (a contact or an array of contacts) into the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		contacts, err := decodeContacts(data)
		if err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		imported := 0
		for _, contact := range contacts {
			if err := a.contacts.Create(contact); err != nil {
				log.Printf("import: skipping contact %s: %v", contact.ID, err)
				continue
			}
			imported++
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d contacts\n", imported, len(contacts))
		return nil
	},
}

func decodeContacts(data []byte) ([]*domain.Contact, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var contacts []*domain.Contact
		if err := json.Unmarshal(trimmed, &contacts); err != nil {
			return nil, err
		}
		return contacts, nil
	}

	var contact domain.Contact
	if err := json.Unmarshal(trimmed, &contact); err != nil {
		return nil, err
	}
	return []*domain.Contact{&contact}, nil
}
