package api

import "github.com/gorilla/rpc"

type ServiceContainer struct {
	PaymentService *PaymentService
}

func (s *ServiceContainer) RegisterServices(server *rpc.Server) {
	server.RegisterService(s.PaymentService, "")
}
