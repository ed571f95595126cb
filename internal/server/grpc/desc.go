package grpc

import (
	"context"

	"github.com/dmitrijs2005/familyvault/internal/rpc"
	"google.golang.org/grpc"
)

// vaultServer is the handler type checked by RegisterService.
type vaultServer interface {
	Ping(context.Context, *rpc.Empty) (*rpc.PingResponse, error)
}

// unary adapts a typed handler to grpc.MethodDesc, running it through the
// server's interceptor chain.
func unary[Req, Resp any](name string, fn func(*GRPCServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(*GRPCServer)
			if interceptor == nil {
				return fn(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: rpc.FullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return fn(s, ctx, req.(*Req))
			})
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: rpc.ServiceName,
	HandlerType: (*vaultServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(rpc.MethodPing, (*GRPCServer).Ping),

		unary(rpc.MethodRequestSignup, (*GRPCServer).RequestSignup),
		unary(rpc.MethodConfirmSignup, (*GRPCServer).ConfirmSignup),
		unary(rpc.MethodLogin, (*GRPCServer).Login),
		unary(rpc.MethodRequestPasswordReset, (*GRPCServer).RequestPasswordReset),
		unary(rpc.MethodResetPassword, (*GRPCServer).ResetPassword),
		unary(rpc.MethodRefreshToken, (*GRPCServer).RefreshToken),

		unary(rpc.MethodGetSettings, (*GRPCServer).GetSettings),
		unary(rpc.MethodUpdateSettings, (*GRPCServer).UpdateSettings),

		unary(rpc.MethodAddNominee, (*GRPCServer).AddNominee),
		unary(rpc.MethodListNominees, (*GRPCServer).ListNominees),
		unary(rpc.MethodDeleteNominee, (*GRPCServer).DeleteNominee),
		unary(rpc.MethodGrantAccess, (*GRPCServer).GrantAccess),
		unary(rpc.MethodRevokeAccess, (*GRPCServer).RevokeAccess),
		unary(rpc.MethodListGrants, (*GRPCServer).ListGrants),

		unary(rpc.MethodCreateUpload, (*GRPCServer).CreateUpload),
		unary(rpc.MethodMarkUploaded, (*GRPCServer).MarkUploaded),
		unary(rpc.MethodListDocuments, (*GRPCServer).ListDocuments),
		unary(rpc.MethodDeleteDocument, (*GRPCServer).DeleteDocument),
		unary(rpc.MethodDocumentURL, (*GRPCServer).DocumentURL),

		unary(rpc.MethodRequestEmergencyAccess, (*GRPCServer).RequestEmergencyAccess),
		unary(rpc.MethodVerifyEmergencyAccess, (*GRPCServer).VerifyEmergencyAccess),
		unary(rpc.MethodEmergencyDocumentURL, (*GRPCServer).EmergencyDocumentURL),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "familyvault/vault",
}
