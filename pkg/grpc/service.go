package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// The dispenser service speaks google.protobuf.Struct in both directions, so
// the descriptor below is all the wiring it needs.
const ServiceName = "smd.v1.DispenserService"

const (
	MethodSendCommand    = "/" + ServiceName + "/SendCommand"
	MethodUpdateSchedule = "/" + ServiceName + "/UpdateSchedule"
	MethodGetInventory   = "/" + ServiceName + "/GetInventory"
	MethodResolveError   = "/" + ServiceName + "/ResolveError"
	MethodPostLimiter    = "/" + ServiceName + "/PostLimiter"
)

type DispenserServiceServer interface {
	SendCommand(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateSchedule(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetInventory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResolveError(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PostLimiter(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(DispenserServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

type methodHandler = func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error)

func unaryHandler(fullMethod string, call unaryCall) methodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DispenserServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DispenserServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var DispenserServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DispenserServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SendCommand", Handler: unaryHandler(MethodSendCommand, DispenserServiceServer.SendCommand)},
		{MethodName: "UpdateSchedule", Handler: unaryHandler(MethodUpdateSchedule, DispenserServiceServer.UpdateSchedule)},
		{MethodName: "GetInventory", Handler: unaryHandler(MethodGetInventory, DispenserServiceServer.GetInventory)},
		{MethodName: "ResolveError", Handler: unaryHandler(MethodResolveError, DispenserServiceServer.ResolveError)},
		{MethodName: "PostLimiter", Handler: unaryHandler(MethodPostLimiter, DispenserServiceServer.PostLimiter)},
	},
	Streams:     []grpc.StreamDesc{},
}

func RegisterDispenserServiceServer(s grpc.ServiceRegistrar, srv DispenserServiceServer) {
	s.RegisterService(&DispenserServiceDesc, srv)
}

type DispenserServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewDispenserServiceClient(cc grpc.ClientConnInterface) *DispenserServiceClient {
	return &DispenserServiceClient{cc: cc}
}

func (c *DispenserServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DispenserServiceClient) SendCommand(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodSendCommand, in, opts...)
}

func (c *DispenserServiceClient) UpdateSchedule(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodUpdateSchedule, in, opts...)
}

func (c *DispenserServiceClient) GetInventory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodGetInventory, in, opts...)
}

func (c *DispenserServiceClient) ResolveError(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodResolveError, in, opts...)
}

func (c *DispenserServiceClient) PostLimiter(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodPostLimiter, in, opts...)
}
