package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sarawak-explorer/itinerary/internal/backup"
	"github.com/sarawak-explorer/itinerary/internal/hash"
)

var restoreVerify bool

var backupCmd = &cobra.Command{
	Use:   "backup [file]",
	Short: "Copy the itinerary slot to a backup file",
	Long: `Write the stored itinerary to a file, with a .sha256 checksum next to it.

Without a file name the backup goes to the backups directory under the
itinerary root.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			name := fmt.Sprintf("itinerary-%s.json", a.clock.Now().Format("20060102-150405"))
			path = filepath.Join(a.paths.Backups, name)
		}

		info, err := backup.NewManager(a.fs, hash.NewSHA256Hasher()).Snapshot(ctx, a.slot, path)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(info)
		}

		PrintSuccess(fmt.Sprintf("Backed up %s", PrintCount(info.Entries, "entry", "entries")))
		PrintLabelValue("File", info.Path)
		PrintLabelValue("SHA-256", info.Checksum)
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Replace the itinerary with a backup",
	Long: `Replace the stored itinerary with the content of a backup file.

The file must be a valid itinerary. With --verify (the default) its .sha256
checksum must also be present and match.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		info, err := backup.NewManager(a.fs, hash.NewSHA256Hasher()).Restore(ctx, a.slot, args[0], restoreVerify)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(info)
		}

		if !restoreVerify {
			PrintWarning("Restored without checksum verification")
		}
		PrintSuccess(fmt.Sprintf("Restored %s", PrintCount(info.Entries, "entry", "entries")))
		PrintLabelValue("File", info.Path)
		return nil
	},
}

func init() {
	restoreCmd.Flags().BoolVar(&restoreVerify, "verify", true, "Require a matching .sha256 checksum")
}
