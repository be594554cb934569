package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ecowatt/internal/report"
	"ecowatt/internal/sim"
	"ecowatt/internal/store"
	"ecowatt/internal/weather"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	dbPath  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ecowatt",
		Short: "EcoWatt - Estimate renewable energy potential for a location",
		Long: `EcoWatt fetches a short-horizon weather forecast, converts it into
solar and wind generation estimates, simulates a battery-backed household
load against the forecast, and reports scores and recommendations.`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ecowatt/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default is $HOME/.ecowatt/ecowatt.db)")

	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(fetchCmd())
	rootCmd.AddCommand(citiesCmd())
	rootCmd.AddCommand(runsCmd())
	rootCmd.AddCommand(initCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".ecowatt")
		os.MkdirAll(configDir, 0755)

		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	setConfigDefaults()

	viper.AutomaticEnv()
	viper.ReadInConfig()

	if dbPath == "" {
		home, _ := os.UserHomeDir()
		dbPath = filepath.Join(home, ".ecowatt", "ecowatt.db")
	}
}

// setConfigDefaults registers the default system sizing so a bare install
// works before 'ecowatt init' ever writes a config file.
func setConfigDefaults() {
	def := sim.DefaultConfig()
	viper.SetDefault("system.solar_performance_ratio", def.SolarPerformanceRatio)
	viper.SetDefault("system.solar_size_kw", def.SolarSizeKW)
	viper.SetDefault("system.area_per_kw_m2", def.AreaPerKWM2)
	viper.SetDefault("system.wind_turbine_kw", def.WindTurbineKW)
	viper.SetDefault("system.rotor_diameter_m", def.RotorDiameterM)
	viper.SetDefault("system.power_coefficient", def.PowerCoefficient)
	viper.SetDefault("system.wind_availability", def.WindAvailability)
	viper.SetDefault("system.battery_capacity_kwh", def.BatteryCapacityKWh)
	viper.SetDefault("system.battery_round_trip_eff", def.BatteryRoundTripEff)
	viper.SetDefault("system.daily_load_kwh", def.DailyLoadKWh)
	viper.SetDefault("system.forecast_days", def.ForecastDays)
	viper.SetDefault("system.grid_tariff_per_kwh", def.GridTariffPerKWh)
	viper.SetDefault("system.solar_om_per_kwh", def.SolarOMPerKWh)
	viper.SetDefault("system.wind_om_per_kwh", def.WindOMPerKWh)
}

// baseConfig reads the configured system sizing.
func baseConfig() sim.SystemConfig {
	return sim.SystemConfig{
		SolarPerformanceRatio: viper.GetFloat64("system.solar_performance_ratio"),
		SolarSizeKW:           viper.GetFloat64("system.solar_size_kw"),
		AreaPerKWM2:           viper.GetFloat64("system.area_per_kw_m2"),
		WindTurbineKW:         viper.GetFloat64("system.wind_turbine_kw"),
		RotorDiameterM:        viper.GetFloat64("system.rotor_diameter_m"),
		PowerCoefficient:      viper.GetFloat64("system.power_coefficient"),
		WindAvailability:      viper.GetFloat64("system.wind_availability"),
		BatteryCapacityKWh:    viper.GetFloat64("system.battery_capacity_kwh"),
		BatteryRoundTripEff:   viper.GetFloat64("system.battery_round_trip_eff"),
		DailyLoadKWh:          viper.GetFloat64("system.daily_load_kwh"),
		ForecastDays:          viper.GetInt("system.forecast_days"),
		GridTariffPerKWh:      viper.GetFloat64("system.grid_tariff_per_kwh"),
		SolarOMPerKWh:         viper.GetFloat64("system.solar_om_per_kwh"),
		WindOMPerKWh:          viper.GetFloat64("system.wind_om_per_kwh"),
	}
}

// locationFlags wires the shared --city/--lat/--lon flags onto a command.
func locationFlags(cmd *cobra.Command, city *string, lat, lon *float64) {
	cmd.Flags().StringVar(city, "city", "", "preset city name (see 'ecowatt cities')")
	cmd.Flags().Float64Var(lat, "lat", 28.6139, "latitude")
	cmd.Flags().Float64Var(lon, "lon", 77.2090, "longitude")
}

func resolveCoords(cmd *cobra.Command, city string, lat, lon float64) (float64, float64, error) {
	if city != "" {
		la, lo, ok := weather.Coordinates(city)
		if !ok {
			return 0, 0, fmt.Errorf("unknown city %q (see 'ecowatt cities')", city)
		}
		return la, lo, nil
	}
	if !cmd.Flags().Changed("lat") && !cmd.Flags().Changed("lon") {
		fmt.Fprintln(os.Stderr, "No location given; using Delhi coordinates")
	}
	return lat, lon, nil
}

func analyzeCmd() *cobra.Command {
	var city string
	var lat, lon float64
	var output string
	var noSave bool

	var days int
	var solarKW, pr, turbineKW, rotorM, cp, availability float64
	var batteryKWh, batteryEff, loadKWh, tariff float64

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Fetch the forecast and run the energy-balance simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			la, lo, err := resolveCoords(cmd, city, lat, lon)
			if err != nil {
				return err
			}

			cfg := baseConfig()
			if cmd.Flags().Changed("days") {
				cfg.ForecastDays = days
			}
			if cmd.Flags().Changed("solar-kw") {
				cfg.SolarSizeKW = solarKW
			}
			if cmd.Flags().Changed("pr") {
				cfg.SolarPerformanceRatio = pr
			}
			if cmd.Flags().Changed("turbine-kw") {
				cfg.WindTurbineKW = turbineKW
			}
			if cmd.Flags().Changed("rotor") {
				cfg.RotorDiameterM = rotorM
			}
			if cmd.Flags().Changed("cp") {
				cfg.PowerCoefficient = cp
			}
			if cmd.Flags().Changed("availability") {
				cfg.WindAvailability = availability
			}
			if cmd.Flags().Changed("battery-kwh") {
				cfg.BatteryCapacityKWh = batteryKWh
			}
			if cmd.Flags().Changed("battery-eff") {
				cfg.BatteryRoundTripEff = batteryEff
			}
			if cmd.Flags().Changed("load") {
				cfg.DailyLoadKWh = loadKWh
			}
			if cmd.Flags().Changed("tariff") {
				cfg.GridTariffPerKWh = tariff
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			client := weather.NewClient(la, lo)
			series, err := client.Forecast(ctx, cfg.ForecastDays)
			if err != nil {
				return fmt.Errorf("fetching forecast: %w", err)
			}

			result, err := sim.Run(series, cfg)
			if err != nil {
				return err
			}

			if !noSave {
				st, err := store.NewStore(dbPath)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Warning: run not saved: %v\n", err)
				} else {
					defer st.Close()
					if id, err := st.SaveRun(la, lo, result); err == nil {
						fmt.Fprintf(os.Stderr, "Saved run %d\n", id)
					}
				}
			}

			switch output {
			case "csv":
				return report.WriteRunCSV(os.Stdout, result)
			default:
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
		},
	}

	locationFlags(cmd, &city, &lat, &lon)
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json or csv")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the run in history")

	cmd.Flags().IntVarP(&days, "days", "d", 7, "forecast horizon in days (7-30)")
	cmd.Flags().Float64Var(&solarKW, "solar-kw", 5, "solar system size (kW)")
	cmd.Flags().Float64Var(&pr, "pr", 0.75, "solar performance ratio (0-1)")
	cmd.Flags().Float64Var(&turbineKW, "turbine-kw", 3, "wind turbine nameplate (kW)")
	cmd.Flags().Float64Var(&rotorM, "rotor", 0, "rotor diameter in m (0 = capacity-factor model)")
	cmd.Flags().Float64Var(&cp, "cp", 0.4, "turbine power coefficient (0-1)")
	cmd.Flags().Float64Var(&availability, "availability", 0.9, "wind availability factor (0-1)")
	cmd.Flags().Float64Var(&batteryKWh, "battery-kwh", 10, "battery capacity (kWh)")
	cmd.Flags().Float64Var(&batteryEff, "battery-eff", 0.9, "battery round-trip efficiency (0-1]")
	cmd.Flags().Float64Var(&loadKWh, "load", 12, "fixed daily household load (kWh)")
	cmd.Flags().Float64Var(&tariff, "tariff", 8, "grid tariff (INR/kWh)")

	return cmd
}

func fetchCmd() *cobra.Command {
	var city string
	var lat, lon float64
	var days int

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the raw validated forecast series as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			la, lo, err := resolveCoords(cmd, city, lat, lon)
			if err != nil {
				return err
			}

			client := weather.NewClient(la, lo)
			series, err := client.Forecast(ctx, days)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(series)
		},
	}

	locationFlags(cmd, &city, &lat, &lon)
	cmd.Flags().IntVarP(&days, "days", "d", 7, "forecast horizon in days")

	return cmd
}

func citiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cities",
		Short: "List the preset cities",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("%-15s %10s %10s\n", "NAME", "LAT", "LON")
			for _, c := range weather.Cities() {
				fmt.Printf("%-15s %10.4f %10.4f\n", c.Name, c.Latitude, c.Longitude)
			}
			return nil
		},
	}
}

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect saved analysis runs",
	}

	cmd.AddCommand(runsListCmd())
	cmd.AddCommand(runsShowCmd())
	cmd.AddCommand(runsExportCmd())

	return cmd
}

func runsListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.NewStore(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListRuns(limit)
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Println("No saved runs")
				return nil
			}

			fmt.Printf("%-6s %-20s %10s %10s %8s %-15s\n", "ID", "CREATED", "LAT", "LON", "SCORE", "SUGGESTION")
			for _, r := range runs {
				fmt.Printf("%-6d %-20s %10.4f %10.4f %8.1f %-15s\n",
					r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Latitude, r.Longitude,
					r.EcoWattScore, r.Recommendation)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum runs to list")

	return cmd
}

func runsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRunID(args[0])
			if err != nil {
				return err
			}

			st, err := store.NewStore(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.GetRun(id)
			if err != nil {
				return fmt.Errorf("loading run %d: %w", id, err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		},
	}
}

func runsExportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a stored run as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRunID(args[0])
			if err != nil {
				return err
			}

			st, err := store.NewStore(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.GetRun(id)
			if err != nil {
				return fmt.Errorf("loading run %d: %w", id, err)
			}

			out := os.Stdout
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}

			return report.WriteRunCSV(out, rec.Result)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "f", "", "write to file instead of stdout")

	return cmd
}

func parseRunID(s string) (int64, error) {
	var id int64
	if _, err := fmt.Sscanf(s, "%d", &id); err != nil {
		return 0, fmt.Errorf("invalid run id %q", s)
	}
	return id, nil
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the default config file and create the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			configDir := filepath.Join(home, ".ecowatt")
			if err := os.MkdirAll(configDir, 0755); err != nil {
				return err
			}

			configPath := filepath.Join(configDir, "config.yaml")
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Fprintf(os.Stderr, "Config not written: %v\n", err)
			} else {
				fmt.Printf("✓ Wrote default config: %s\n", configPath)
			}

			st, err := store.NewStore(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			fmt.Printf("✓ Initialized database: %s\n", dbPath)
			fmt.Println("\nNext steps:")
			fmt.Println("  1. Pick a city: ecowatt cities")
			fmt.Println("  2. Analyze it:  ecowatt analyze --city Delhi")

			return nil
		},
	}
}
