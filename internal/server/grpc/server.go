// Package grpc exposes the Family Vault services as the familyvault.Vault
// gRPC service.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/familyvault/internal/logging"
	"google.golang.org/grpc"
)

type GRPCServer struct {
	address    string
	accounts   Accounts
	inactivity Inactivity
	nominees   Nominees
	documents  Documents
	emergency  Emergency
	logger     logging.Logger
	jwtSecret  []byte
}

// Services groups the business services the server delegates to.
type Services struct {
	Accounts   Accounts
	Inactivity Inactivity
	Nominees   Nominees
	Documents  Documents
	Emergency  Emergency
}

func NewGRPCServer(a string, l logging.Logger, svc Services, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:    a,
		logger:     l.With("module", "grpc_server"),
		accounts:   svc.Accounts,
		inactivity: svc.Inactivity,
		nominees:   svc.Nominees,
		documents:  svc.Documents,
		emergency:  svc.Emergency,
		jwtSecret:  []byte(secretKey),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	srv.RegisterService(&serviceDesc, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}
