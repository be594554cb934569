package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"ecowatt/internal/sim"
	"ecowatt/internal/store"
	"ecowatt/internal/uiapi"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "1.0.0"

func main() {
	var port int
	var dbPath string
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "ecowattd",
		Short: "EcoWatt HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				home, _ := os.UserHomeDir()
				dbPath = filepath.Join(home, ".ecowatt", "ecowatt.db")
			}

			if cfgFile != "" {
				viper.SetConfigFile(cfgFile)
			} else {
				home, _ := os.UserHomeDir()
				viper.AddConfigPath(filepath.Join(home, ".ecowatt"))
				viper.SetConfigName("config")
				viper.SetConfigType("yaml")
			}
			viper.AutomaticEnv()
			viper.ReadInConfig()

			st, err := store.NewStore(dbPath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer st.Close()

			srv := uiapi.NewServer(st, serverConfig(), version)

			addr := fmt.Sprintf(":%d", port)
			log.Printf("EcoWatt API server starting on port %d", port)
			log.Printf("Database: %s", dbPath)

			return http.ListenAndServe(addr, srv.Handler())
		},
	}

	rootCmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP port")
	rootCmd.Flags().StringVar(&dbPath, "db", "", "Database path")
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "Config file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// serverConfig builds the base system sizing from the config file, falling
// back to the built-in defaults for anything unset.
func serverConfig() sim.SystemConfig {
	cfg := sim.DefaultConfig()

	set := func(key string, target *float64) {
		if viper.IsSet(key) {
			*target = viper.GetFloat64(key)
		}
	}

	set("system.solar_performance_ratio", &cfg.SolarPerformanceRatio)
	set("system.solar_size_kw", &cfg.SolarSizeKW)
	set("system.area_per_kw_m2", &cfg.AreaPerKWM2)
	set("system.wind_turbine_kw", &cfg.WindTurbineKW)
	set("system.rotor_diameter_m", &cfg.RotorDiameterM)
	set("system.power_coefficient", &cfg.PowerCoefficient)
	set("system.wind_availability", &cfg.WindAvailability)
	set("system.battery_capacity_kwh", &cfg.BatteryCapacityKWh)
	set("system.battery_round_trip_eff", &cfg.BatteryRoundTripEff)
	set("system.daily_load_kwh", &cfg.DailyLoadKWh)
	set("system.grid_tariff_per_kwh", &cfg.GridTariffPerKWh)
	set("system.solar_om_per_kwh", &cfg.SolarOMPerKWh)
	set("system.wind_om_per_kwh", &cfg.WindOMPerKWh)
	if viper.IsSet("system.forecast_days") {
		cfg.ForecastDays = viper.GetInt("system.forecast_days")
	}

	return cfg
}
