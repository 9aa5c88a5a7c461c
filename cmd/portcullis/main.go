package main

import (
	"fmt"
	"os"
	"time"

	"github.com/kyokan/portcullis/internal"
	"github.com/kyokan/portcullis/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var configFile string

var rootCmd *cobra.Command

var log *zap.SugaredLogger

func init() {
	log = logger.Logger.Named("cli")

	cobra.OnInitialize(initConfig)

	rootCmd = &cobra.Command{
		Use:   "portcullis",
		Short: "runs hash-time-locked payment channels over federated relays",
		Run: func(cmd *cobra.Command, args []string) {
			internal.Start()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file")
	rootCmd.PersistentFlags().String("database-url", "", "URL to the postgres database")
	rootCmd.PersistentFlags().String("rpc-url", "", "URL to a running Ethereum RPC node")
	rootCmd.PersistentFlags().String("environment", "production", "relay environment to discover servers for")
	rootCmd.PersistentFlags().String("address", "", "the node's own address")
	rootCmd.PersistentFlags().String("relay-directory-url", "", "URL serving the known-relays list")
	rootCmd.PersistentFlags().StringSlice("relays", make([]string, 0), "static relay set, overrides discovery")
	rootCmd.PersistentFlags().StringSlice("broadcast-rooms", make([]string, 0), "base set of broadcast rooms to join")
	rootCmd.PersistentFlags().Duration("connect-timeout", 10*time.Second, "relay connect and handshake timeout")
	rootCmd.PersistentFlags().String("pathfinding-service-address", "", "address of the pathfinding service, empty disables it")
	rootCmd.PersistentFlags().Bool("monitoring-enabled", false, "whether the monitoring service is enabled")
	rootCmd.PersistentFlags().String("rpc-ip", "127.0.0.1", "IP address to listen for RPC requests on")
	rootCmd.PersistentFlags().String("rpc-port", "8080", "port to listen for RPC requests on")
	viper.BindPFlag("database-url", rootCmd.PersistentFlags().Lookup("database-url"))
	viper.BindPFlag("rpc-url", rootCmd.PersistentFlags().Lookup("rpc-url"))
	viper.BindPFlag("environment", rootCmd.PersistentFlags().Lookup("environment"))
	viper.BindPFlag("address", rootCmd.PersistentFlags().Lookup("address"))
	viper.BindPFlag("relay-directory-url", rootCmd.PersistentFlags().Lookup("relay-directory-url"))
	viper.BindPFlag("relays", rootCmd.PersistentFlags().Lookup("relays"))
	viper.BindPFlag("broadcast-rooms", rootCmd.PersistentFlags().Lookup("broadcast-rooms"))
	viper.BindPFlag("connect-timeout", rootCmd.PersistentFlags().Lookup("connect-timeout"))
	viper.BindPFlag("pathfinding-service-address", rootCmd.PersistentFlags().Lookup("pathfinding-service-address"))
	viper.BindPFlag("monitoring-enabled", rootCmd.PersistentFlags().Lookup("monitoring-enabled"))
	viper.BindPFlag("rpc-ip", rootCmd.PersistentFlags().Lookup("rpc-ip"))
	viper.BindPFlag("rpc-port", rootCmd.PersistentFlags().Lookup("rpc-port"))
	viper.SetDefault("environment", "production")
	viper.SetDefault("rpc-ip", "127.0.0.1")
	viper.SetDefault("rpc-port", "8080")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func initConfig() {
	if configFile == "" {
		log.Info("no config file argument found")

		return
	}

	log.Infow("reading in config", "configFile", configFile)

	viper.SetConfigFile(configFile)

	if err := viper.ReadInConfig(); err != nil {
		log.Panicw("failed to read in config file", "err", err.Error())
	}
}
