package grpc

import (
	"context"

	"github.com/dmitrijs2005/familyvault/internal/rpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// fail converts err to a status, logging anything that is not part of the
// wire contract.
func (s *GRPCServer) fail(ctx context.Context, method string, err error) error {
	st, known := rpc.ToStatus(err)
	if !known {
		s.logger.Error(ctx, "request failed", "method", method, "error", err)
	}
	return st.Err()
}

func (s *GRPCServer) userID(ctx context.Context) (string, error) {
	id, ok := UserIDFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "unauthorized")
	}
	return id, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *rpc.Empty) (*rpc.PingResponse, error) {
	return &rpc.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) RequestSignup(ctx context.Context, req *rpc.SignupRequest) (*rpc.Empty, error) {
	if err := s.accounts.RequestSignup(ctx, req.Email, req.Password, req.DisplayName); err != nil {
		return nil, s.fail(ctx, "RequestSignup", err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) ConfirmSignup(ctx context.Context, req *rpc.CodeRequest) (*rpc.TokenResponse, error) {
	pair, err := s.accounts.ConfirmSignup(ctx, req.Email, req.Code)
	if err != nil {
		return nil, s.fail(ctx, "ConfirmSignup", err)
	}
	s.logger.Info(ctx, "Registered", "email", req.Email)
	return &rpc.TokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.TokenResponse, error) {
	pair, err := s.accounts.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.fail(ctx, "Login", err)
	}
	return &rpc.TokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (s *GRPCServer) RequestPasswordReset(ctx context.Context, req *rpc.EmailRequest) (*rpc.Empty, error) {
	if err := s.accounts.RequestPasswordReset(ctx, req.Email); err != nil {
		return nil, s.fail(ctx, "RequestPasswordReset", err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) ResetPassword(ctx context.Context, req *rpc.ResetPasswordRequest) (*rpc.Empty, error) {
	if err := s.accounts.ResetPassword(ctx, req.Email, req.Code, req.NewPassword); err != nil {
		return nil, s.fail(ctx, "ResetPassword", err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *rpc.RefreshTokenRequest) (*rpc.TokenResponse, error) {
	pair, err := s.accounts.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.fail(ctx, "RefreshToken", err)
	}
	return &rpc.TokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}
