package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarawak-explorer/itinerary/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the attraction catalog",
	Long: `Browse the regions and attractions that entries can be added from.

Add one to the itinerary with:
  itinerary add --region <region> --attraction <id>`,
}

type regionRow struct {
	Name        string  `json:"name"`
	Color       string  `json:"color,omitempty"`
	Attractions int     `json:"attractions"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

var catalogRegionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List catalog regions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalogFromConfig()
		if err != nil {
			return err
		}

		regions := make([]regionRow, 0)
		for _, name := range cat.Regions() {
			r, err := cat.Region(name)
			if err != nil {
				return err
			}
			lat, lng, _ := r.Center()
			regions = append(regions, regionRow{
				Name:        r.Name,
				Color:       r.Color,
				Attractions: len(r.Attractions),
				Latitude:    lat,
				Longitude:   lng,
			})
		}

		if jsonOutput {
			return outputJSON(regions)
		}

		PrintSection("Regions")
		if len(regions) == 0 {
			PrintEmptyState("The catalog is empty")
			return nil
		}
		rows := make([][]string, 0, len(regions))
		for _, r := range regions {
			rows = append(rows, []string{r.Name, PrintCount(r.Attractions, "attraction", "attractions"), coordinates(r.Latitude, r.Longitude)})
		}
		PrintTable([]string{"Region", "Attractions", "Center"}, rows)
		return nil
	},
}

var catalogLsCmd = &cobra.Command{
	Use:   "ls <region>",
	Short: "List the attractions of a region",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalogFromConfig()
		if err != nil {
			return err
		}

		region, err := cat.Region(args[0])
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(region)
		}

		PrintSection(region.Name)
		if len(region.Attractions) == 0 {
			PrintEmptyState("No attractions in this region")
			return nil
		}
		rows := make([][]string, 0, len(region.Attractions))
		for _, a := range region.Attractions {
			rows = append(rows, []string{a.ID, a.Name, coordinates(a.Latitude, a.Longitude)})
		}
		PrintTable([]string{"ID", "Name", "Coordinates"}, rows)
		return nil
	},
}

func catalogFromConfig() (catalog.Provider, error) {
	_, cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return loadCatalog(cfg)
}

func coordinates(lat, lng float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lng)
}

func init() {
	catalogCmd.AddCommand(catalogRegionsCmd)
	catalogCmd.AddCommand(catalogLsCmd)
}
