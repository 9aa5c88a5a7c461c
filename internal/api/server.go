package api

import (
	"net/http"

	"github.com/gorilla/rpc"
	"github.com/gorilla/rpc/json"
	"github.com/kyokan/portcullis/internal/logger"
	"go.uber.org/zap"
)

const StatusOk = "OK"

var sLog *zap.SugaredLogger

func init() {
	sLog = logger.Logger.Named("api-server")
}

func Start(container *ServiceContainer, addr string, port string) {
	sLog.Infow("starting services", "listen-ip", addr, "listen-port", port)
	s := rpc.NewServer()
	s.RegisterCodec(json.NewCodec(), "application/json")
	container.RegisterServices(s)
	http.Handle("/rpc", s)
	err := http.ListenAndServe(addr+":"+port, s)

	if err != nil {
		sLog.Fatalw("failed to start HTTP listener", "err", err.Error())
	}
}
