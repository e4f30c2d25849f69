package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/loykin/ternmigrate/internal/common"
	"github.com/spf13/cobra"
)

const migrationTemplate = `up:
  # - create-table: my_table
  #   columns:
  #     - [id, INT, NOT NULL]
  #   primary-key: [id]
down:
  # - drop-table: my_table
`

var NewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a new timestamped migration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadConfig()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(doc.MigrationDir, 0o755); err != nil {
			return err
		}

		slug := strings.ReplaceAll(strings.TrimSpace(args[0]), " ", "-")
		name := fmt.Sprintf("%s-%s.yaml", time.Now().Format("20060102150405"), slug)
		path := filepath.Join(doc.MigrationDir, name)

		if err := os.WriteFile(path, []byte(migrationTemplate), 0o644); err != nil {
			return err
		}
		common.LogInfo("created migration", "path", path)
		return nil
	},
}
