package grpc

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/familyvault/internal/common"
	"github.com/dmitrijs2005/familyvault/internal/rpc"
	"github.com/dmitrijs2005/familyvault/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// UserIDFromContext returns the owner id set by the access token interceptor.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func headerValue(ctx context.Context, key string) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(key); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

func methodName(fullMethod string) string {
	return fullMethod[strings.LastIndex(fullMethod, "/")+1:]
}

// accessTokenInterceptor authenticates owner methods and records the call as
// owner activity.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if !strings.HasPrefix(info.FullMethod, "/"+rpc.ServiceName+"/") || rpc.PublicMethods[methodName(info.FullMethod)] {
		return handler(ctx, req)
	}

	accessToken := headerValue(ctx, common.AccessTokenHeaderName)
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	userID, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
	if err != nil {
		st, _ := rpc.ToStatus(err)
		return nil, st.Err()
	}

	if err := s.inactivity.RecordActivity(ctx, userID); err != nil {
		s.logger.Warn(ctx, "recording activity failed", "user_id", userID, "error", err)
	}

	ctx = context.WithValue(ctx, userIDKey, userID)
	return handler(ctx, req)
}
