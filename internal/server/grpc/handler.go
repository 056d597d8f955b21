package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	pb "github.com/dmitrijs2005/gophdrive/internal/proto"
	"github.com/dmitrijs2005/gophdrive/internal/server/metrics"
	"github.com/dmitrijs2005/gophdrive/internal/server/upload"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) ListDir(ctx context.Context, req *pb.ListDirRequest) (*pb.ListDirResponse, error) {

	entries, dir, err := s.lister.List(ctx, req.GetPath())
	if err != nil {
		st := toStatus(err)
		metrics.RecordList(status.Code(st).String())
		s.logger.Warn(ctx, "list failed", "path", req.GetPath(), "error", err)
		return nil, st
	}

	resp := &pb.ListDirResponse{Entries: make([]*pb.DirEntry, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, &pb.DirEntry{Name: e.Name, IsDir: e.IsDir})
	}

	metrics.RecordList(codes.OK.String())
	s.logger.Debug(ctx, "listed directory", "dir", dir, "entries", len(entries))
	return resp, nil
}

func (s *GRPCServer) UploadFile(stream grpc.ClientStreamingServer[pb.FileChunk, pb.UploadStatus]) error {
	ctx := stream.Context()

	done := metrics.UploadStarted()
	defer done()

	res, err := s.uploads.Receive(ctx, stream)
	if err != nil {
		metrics.RecordUpload(uploadResult(err), 0)
		return toStatus(err)
	}

	metrics.RecordUpload(metrics.ResultSuccess, res.Bytes)
	return stream.SendAndClose(&pb.UploadStatus{Success: true, Message: res.Message()})
}

func uploadResult(err error) string {
	switch {
	case errors.Is(err, upload.ErrPathBusy):
		return metrics.ResultBusy
	case errors.Is(err, common.ErrInvalidArgument), errors.Is(err, common.ErrPermissionDenied):
		return metrics.ResultRejected
	default:
		return metrics.ResultFailed
	}
}

// toStatus converts a domain error into a gRPC status error. Errors that
// already carry a status (transport failures) pass through unchanged.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var code codes.Code
	switch {
	case errors.Is(err, common.ErrInvalidArgument):
		code = codes.InvalidArgument
	case errors.Is(err, common.ErrNotFound):
		code = codes.NotFound
	case errors.Is(err, common.ErrPermissionDenied):
		code = codes.PermissionDenied
	case errors.Is(err, common.ErrUnavailable):
		code = codes.Unavailable
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	default:
		code = codes.Internal
	}

	return status.Error(code, err.Error())
}
