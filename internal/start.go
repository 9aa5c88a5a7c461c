package internal

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kyokan/portcullis/internal/api"
	"github.com/kyokan/portcullis/internal/db"
	"github.com/kyokan/portcullis/internal/eth"
	"github.com/kyokan/portcullis/internal/logger"
	"github.com/kyokan/portcullis/internal/transport"
	"github.com/kyokan/portcullis/pkg"
	"github.com/kyokan/portcullis/pkg/channel"
	"github.com/kyokan/portcullis/pkg/transfer"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var log *zap.SugaredLogger

func init() {
	log = logger.Logger.Named("start")
}

func Start() {
	databaseUrl := stringFlag("database-url")

	database, err := db.NewDB(databaseUrl)

	if err != nil {
		log.Panicw("failed to open database connection", "err", err.Error())
	}

	err = database.Connect()

	if err != nil {
		log.Panicw("failed to connect to the database", "err", err.Error())
	}

	ethClient, err := eth.NewClient(stringFlag("rpc-url"))

	if err != nil {
		log.Panicw("failed to instantiate ETH client", "err", err.Error())
	}

	baseConfig := pkg.Config{
		Environment:    stringFlag("environment"),
		Address:        common.HexToAddress(stringFlag("address")),
		DirectoryURL:   stringFlag("relay-directory-url"),
		Relays:         viper.GetStringSlice("relays"),
		BroadcastRooms: viper.GetStringSlice("broadcast-rooms"),
		ConnectTimeout: viper.GetDuration("connect-timeout"),
	}

	services := pkg.ServicesConfig{
		PathFindingServiceAddress: stringFlag("pathfinding-service-address"),
		MonitoringEnabled:         viper.GetBool("monitoring-enabled"),
	}

	config := pkg.DeriveEffectiveConfig(baseConfig, services)

	var directory transport.RelayDirectory

	if len(config.Relays) > 0 {
		directory = &transport.StaticRelayDirectory{Relays: config.Relays}
	} else {
		directory = transport.NewHTTPRelayDirectory(config.DirectoryURL, config.ConnectTimeout)
	}

	connector := &transport.DialConnector{
		Timeout:       config.ConnectTimeout,
		DefaultRelays: config.Relays,
	}

	layer := transport.NewLayer(database.LightClients, directory, connector)

	ctx := context.Background()

	fullNode, err := layer.ConstructFullNode(ctx, config)

	if err != nil {
		log.Panicw("failed to construct full node session", "err", err.Error())
	}

	result, err := layer.ConstructLightClientNodes(ctx, config)

	if err != nil {
		log.Panicw("FATAL: could not reconcile light client sessions", "err", err.Error())
	}

	sessions := transport.NewRegistry()
	sessions.Add(fullNode)

	for _, session := range result.Sessions {
		sessions.Add(session)
	}

	log.Infow("transport sessions ready",
		"sessions", sessions.Len(),
		"lightClients", len(result.Sessions),
		"flaggedForDeletion", len(result.Flagged),
	)

	channels := channel.NewRegistry()

	container := &api.ServiceContainer{
		PaymentService: api.NewPaymentService(channels, sessions, transfer.NewFactory(nil), ethClient),
	}

	go (func() {
		api.Start(container, stringFlag("rpc-ip"), stringFlag("rpc-port"))
	})()

	log.Info("started")

	select {}
}

func stringFlag(name string) string {
	return viper.GetString(name)
}
