package grpc

import (
	"context"

	"github.com/dmitrijs2005/familyvault/internal/rpc"
	"github.com/dmitrijs2005/familyvault/internal/server/models"
	"github.com/dmitrijs2005/familyvault/internal/server/services"
)

func (s *GRPCServer) GetSettings(ctx context.Context, req *rpc.Empty) (*rpc.Settings, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	t, err := s.inactivity.GetSettings(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "GetSettings", err)
	}
	return settingsToRPC(t), nil
}

func (s *GRPCServer) UpdateSettings(ctx context.Context, req *rpc.Settings) (*rpc.Empty, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	err = s.inactivity.UpsertSettings(ctx, userID, services.InactivitySettings{
		IsActive:              req.IsActive,
		InactiveDaysThreshold: req.InactiveDaysThreshold,
		CustomMessage:         req.CustomMessage,
		Channels:              models.NotificationChannels{Email: req.NotifyEmail, SMS: req.NotifySMS},
	})
	if err != nil {
		return nil, s.fail(ctx, "UpdateSettings", err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) AddNominee(ctx context.Context, req *rpc.NomineeRequest) (*rpc.Nominee, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	n, err := s.nominees.Create(ctx, userID, services.NomineeInput{
		FullName: req.FullName,
		Relation: models.Relation(req.Relation),
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		return nil, s.fail(ctx, "AddNominee", err)
	}
	out := nomineeToRPC(n)
	return &out, nil
}

func (s *GRPCServer) ListNominees(ctx context.Context, req *rpc.Empty) (*rpc.NomineeList, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.nominees.List(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "ListNominees", err)
	}
	out := &rpc.NomineeList{Nominees: make([]rpc.Nominee, 0, len(list))}
	for _, n := range list {
		out.Nominees = append(out.Nominees, nomineeToRPC(n))
	}
	return out, nil
}

func (s *GRPCServer) DeleteNominee(ctx context.Context, req *rpc.IDRequest) (*rpc.Empty, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.nominees.Delete(ctx, userID, req.ID); err != nil {
		return nil, s.fail(ctx, "DeleteNominee", err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) GrantAccess(ctx context.Context, req *rpc.GrantRequest) (*rpc.Empty, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.nominees.Grant(ctx, userID, req.NomineeID, req.DocumentID, models.AccessLevel(req.AccessLevel)); err != nil {
		return nil, s.fail(ctx, "GrantAccess", err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) RevokeAccess(ctx context.Context, req *rpc.GrantRequest) (*rpc.Empty, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.nominees.Revoke(ctx, userID, req.NomineeID, req.DocumentID); err != nil {
		return nil, s.fail(ctx, "RevokeAccess", err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) ListGrants(ctx context.Context, req *rpc.IDRequest) (*rpc.GrantList, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.nominees.Grants(ctx, userID, req.ID)
	if err != nil {
		return nil, s.fail(ctx, "ListGrants", err)
	}
	out := &rpc.GrantList{Grants: make([]rpc.Grant, 0, len(list))}
	for _, ac := range list {
		out.Grants = append(out.Grants, rpc.Grant{DocumentID: ac.ResourceID, AccessLevel: string(ac.AccessLevel)})
	}
	return out, nil
}

func (s *GRPCServer) CreateUpload(ctx context.Context, req *rpc.UploadRequest) (*rpc.UploadResponse, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	d, url, err := s.documents.CreateUpload(ctx, userID, req.FileName, req.FileType, req.FileSize)
	if err != nil {
		return nil, s.fail(ctx, "CreateUpload", err)
	}
	return &rpc.UploadResponse{Document: documentToRPC(d, ""), URL: url}, nil
}

func (s *GRPCServer) MarkUploaded(ctx context.Context, req *rpc.IDRequest) (*rpc.Empty, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.documents.MarkUploaded(ctx, userID, req.ID); err != nil {
		return nil, s.fail(ctx, "MarkUploaded", err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) ListDocuments(ctx context.Context, req *rpc.Empty) (*rpc.DocumentList, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.documents.List(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "ListDocuments", err)
	}
	out := &rpc.DocumentList{Documents: make([]rpc.Document, 0, len(list))}
	for _, d := range list {
		out.Documents = append(out.Documents, documentToRPC(d, ""))
	}
	return out, nil
}

func (s *GRPCServer) DeleteDocument(ctx context.Context, req *rpc.IDRequest) (*rpc.Empty, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.documents.Delete(ctx, userID, req.ID); err != nil {
		return nil, s.fail(ctx, "DeleteDocument", err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) DocumentURL(ctx context.Context, req *rpc.IDRequest) (*rpc.URLResponse, error) {
	userID, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	url, err := s.documents.OwnerURL(ctx, userID, req.ID)
	if err != nil {
		return nil, s.fail(ctx, "DocumentURL", err)
	}
	return &rpc.URLResponse{URL: url}, nil
}
