package client

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/familyvault/internal/common"
	"github.com/dmitrijs2005/familyvault/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	cc          grpc.ClientConnInterface
	tokens      TokenStore
}

func withHeader(ctx context.Context, key, value string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(key, value)
	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	access, refresh := s.tokens.Tokens()
	if access != "" {
		ctx = withHeader(ctx, common.AccessTokenHeaderName, access)
	}

	err := invoker(ctx, method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refresh == "" {
		return err
	}

	var tokens rpc.TokenResponse
	if rerr := invoker(ctx, rpc.FullMethod(rpc.MethodRefreshToken), &rpc.RefreshTokenRequest{RefreshToken: refresh}, &tokens, cc, opts...); rerr != nil {
		return rerr
	}
	s.tokens.SetTokens(tokens.AccessToken, tokens.RefreshToken)

	ctx = withHeader(ctx, common.AccessTokenHeaderName, tokens.AccessToken)
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewVaultClient dials endpointURL lazily. A nil tokens store gets a
// MemoryTokens.
func NewVaultClient(endpointURL string, timeout time.Duration, tokens TokenStore) (*GRPCClient, error) {
	if tokens == nil {
		tokens = &MemoryTokens{}
	}
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout, tokens: tokens}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(rpc.CodecName)),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.cc = conn
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) call(ctx context.Context, method string, req, resp any) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.mapError(s.cc.Invoke(ctx, rpc.FullMethod(method), req, resp))
}

// mapError recovers the sentinel behind a status. Transport failures become
// ErrUnavailable.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	if mapped := rpc.FromStatus(err); mapped != err {
		return mapped
	}
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	var resp rpc.PingResponse
	if err := s.call(ctx, rpc.MethodPing, &rpc.Empty{}, &resp); err != nil {
		return err
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) RequestSignup(ctx context.Context, email, password, displayName string) error {
	req := &rpc.SignupRequest{Email: email, Password: password, DisplayName: displayName}
	return s.call(ctx, rpc.MethodRequestSignup, req, &rpc.Empty{})
}

func (s *GRPCClient) ConfirmSignup(ctx context.Context, email, code string) error {
	return s.authenticate(ctx, rpc.MethodConfirmSignup, &rpc.CodeRequest{Email: email, Code: code})
}

func (s *GRPCClient) Login(ctx context.Context, email, password string) error {
	return s.authenticate(ctx, rpc.MethodLogin, &rpc.LoginRequest{Email: email, Password: password})
}

func (s *GRPCClient) authenticate(ctx context.Context, method string, req any) error {
	var resp rpc.TokenResponse
	if err := s.call(ctx, method, req, &resp); err != nil {
		return err
	}
	s.tokens.SetTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

func (s *GRPCClient) RequestPasswordReset(ctx context.Context, email string) error {
	return s.call(ctx, rpc.MethodRequestPasswordReset, &rpc.EmailRequest{Email: email}, &rpc.Empty{})
}

func (s *GRPCClient) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	req := &rpc.ResetPasswordRequest{Email: email, Code: code, NewPassword: newPassword}
	return s.call(ctx, rpc.MethodResetPassword, req, &rpc.Empty{})
}

func (s *GRPCClient) GetSettings(ctx context.Context) (*rpc.Settings, error) {
	var resp rpc.Settings
	if err := s.call(ctx, rpc.MethodGetSettings, &rpc.Empty{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *GRPCClient) UpdateSettings(ctx context.Context, settings rpc.Settings) error {
	return s.call(ctx, rpc.MethodUpdateSettings, &settings, &rpc.Empty{})
}

func (s *GRPCClient) AddNominee(ctx context.Context, req rpc.NomineeRequest) (*rpc.Nominee, error) {
	var resp rpc.Nominee
	if err := s.call(ctx, rpc.MethodAddNominee, &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *GRPCClient) ListNominees(ctx context.Context) ([]rpc.Nominee, error) {
	var resp rpc.NomineeList
	if err := s.call(ctx, rpc.MethodListNominees, &rpc.Empty{}, &resp); err != nil {
		return nil, err
	}
	return resp.Nominees, nil
}

func (s *GRPCClient) DeleteNominee(ctx context.Context, id string) error {
	return s.call(ctx, rpc.MethodDeleteNominee, &rpc.IDRequest{ID: id}, &rpc.Empty{})
}

func (s *GRPCClient) GrantAccess(ctx context.Context, nomineeID, documentID, level string) error {
	req := &rpc.GrantRequest{NomineeID: nomineeID, DocumentID: documentID, AccessLevel: level}
	return s.call(ctx, rpc.MethodGrantAccess, req, &rpc.Empty{})
}

func (s *GRPCClient) RevokeAccess(ctx context.Context, nomineeID, documentID string) error {
	req := &rpc.GrantRequest{NomineeID: nomineeID, DocumentID: documentID}
	return s.call(ctx, rpc.MethodRevokeAccess, req, &rpc.Empty{})
}

func (s *GRPCClient) ListGrants(ctx context.Context, nomineeID string) ([]rpc.Grant, error) {
	var resp rpc.GrantList
	if err := s.call(ctx, rpc.MethodListGrants, &rpc.IDRequest{ID: nomineeID}, &resp); err != nil {
		return nil, err
	}
	return resp.Grants, nil
}

func (s *GRPCClient) CreateUpload(ctx context.Context, fileName, fileType string, size int64) (*rpc.UploadResponse, error) {
	var resp rpc.UploadResponse
	req := &rpc.UploadRequest{FileName: fileName, FileType: fileType, FileSize: size}
	if err := s.call(ctx, rpc.MethodCreateUpload, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *GRPCClient) MarkUploaded(ctx context.Context, documentID string) error {
	return s.call(ctx, rpc.MethodMarkUploaded, &rpc.IDRequest{ID: documentID}, &rpc.Empty{})
}

func (s *GRPCClient) ListDocuments(ctx context.Context) ([]rpc.Document, error) {
	var resp rpc.DocumentList
	if err := s.call(ctx, rpc.MethodListDocuments, &rpc.Empty{}, &resp); err != nil {
		return nil, err
	}
	return resp.Documents, nil
}

func (s *GRPCClient) DeleteDocument(ctx context.Context, documentID string) error {
	return s.call(ctx, rpc.MethodDeleteDocument, &rpc.IDRequest{ID: documentID}, &rpc.Empty{})
}

func (s *GRPCClient) DocumentURL(ctx context.Context, documentID string) (string, error) {
	var resp rpc.URLResponse
	if err := s.call(ctx, rpc.MethodDocumentURL, &rpc.IDRequest{ID: documentID}, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

func (s *GRPCClient) RequestEmergencyAccess(ctx context.Context, email string) error {
	return s.call(ctx, rpc.MethodRequestEmergencyAccess, &rpc.EmailRequest{Email: email}, &rpc.Empty{})
}

func (s *GRPCClient) VerifyEmergencyAccess(ctx context.Context, email, code string) (*rpc.EmergencyGrant, error) {
	var resp rpc.EmergencyGrant
	if err := s.call(ctx, rpc.MethodVerifyEmergencyAccess, &rpc.CodeRequest{Email: email, Code: code}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EmergencyDocumentURL asks for a signed URL with the nominee token minted by
// VerifyEmergencyAccess.
func (s *GRPCClient) EmergencyDocumentURL(ctx context.Context, nomineeToken, documentID, action string) (string, error) {
	ctx = withHeader(ctx, common.NomineeTokenHeaderName, nomineeToken)
	var resp rpc.URLResponse
	req := &rpc.EmergencyURLRequest{DocumentID: documentID, Action: action}
	if err := s.call(ctx, rpc.MethodEmergencyDocumentURL, req, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}
