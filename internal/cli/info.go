package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var jsonInfoFlag bool

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show index metadata and statistics",
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().BoolVar(&jsonInfoFlag, "json", false, "Print info as JSON")
}

type indexInfo struct {
	Backend       string    `json:"backend"`
	SchemaVersion int       `json:"schema_version"`
	RootPath      string    `json:"root_path"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Files         int       `json:"files"`
	Symbols       int       `json:"symbols"`
	Languages     []string  `json:"languages"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	rootDir, err := resolveRoot()
	if err != nil {
		return err
	}
	_, backend, ix, err := loadIndex(rootDir)
	if err != nil {
		return err
	}
	defer backend.Close()

	meta, err := backend.Meta()
	if err != nil {
		return err
	}

	info := indexInfo{
		Backend:       backend.Kind(),
		SchemaVersion: meta.SchemaVersion,
		RootPath:      meta.RootPath,
		CreatedAt:     meta.CreatedAt,
		UpdatedAt:     meta.UpdatedAt,
		Files:         len(ix.Files()),
		Symbols:       ix.Len(),
		Languages:     ix.Languages(),
	}

	if jsonInfoFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Printf("Backend:        %s\n", info.Backend)
	fmt.Printf("Schema version: %d\n", info.SchemaVersion)
	fmt.Printf("Root:           %s\n", info.RootPath)
	fmt.Printf("Created:        %s\n", info.CreatedAt.Format(time.RFC3339))
	fmt.Printf("Updated:        %s\n", info.UpdatedAt.Format(time.RFC3339))
	fmt.Printf("Files:          %d\n", info.Files)
	fmt.Printf("Symbols:        %d\n", info.Symbols)
	fmt.Printf("Languages:      %v\n", info.Languages)
	return nil
}
