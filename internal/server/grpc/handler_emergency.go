package grpc

import (
	"context"

	"github.com/dmitrijs2005/familyvault/internal/common"
	"github.com/dmitrijs2005/familyvault/internal/rpc"
	"github.com/dmitrijs2005/familyvault/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) RequestEmergencyAccess(ctx context.Context, req *rpc.EmailRequest) (*rpc.Empty, error) {
	if err := s.emergency.RequestAccess(ctx, req.Email); err != nil {
		return nil, s.fail(ctx, "RequestEmergencyAccess", err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) VerifyEmergencyAccess(ctx context.Context, req *rpc.CodeRequest) (*rpc.EmergencyGrant, error) {
	grant, err := s.emergency.VerifyAccess(ctx, req.Email, req.Code)
	if err != nil {
		return nil, s.fail(ctx, "VerifyEmergencyAccess", err)
	}
	out := &rpc.EmergencyGrant{
		Token:     grant.Token,
		ExpiresAt: grant.ExpiresAt,
		Documents: make([]rpc.Document, 0, len(grant.Documents)),
	}
	for _, d := range grant.Documents {
		out.Documents = append(out.Documents, documentToRPC(&d.Document, d.AccessLevel))
	}
	return out, nil
}

func (s *GRPCServer) EmergencyDocumentURL(ctx context.Context, req *rpc.EmergencyURLRequest) (*rpc.URLResponse, error) {
	token := headerValue(ctx, common.NomineeTokenHeaderName)
	if token == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	url, err := s.emergency.DocumentURL(ctx, token, req.DocumentID, models.AccessLevel(req.Action))
	if err != nil {
		return nil, s.fail(ctx, "EmergencyDocumentURL", err)
	}
	return &rpc.URLResponse{URL: url}, nil
}
