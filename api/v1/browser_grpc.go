// Package v1 declares the histograms.v1.HistogramBrowser gRPC service.
// Messages are google.protobuf.Struct values; the field names are listed
// next to each method.
package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "histograms.v1.HistogramBrowser"

const (
	HistogramBrowser_LoadCourse_FullMethodName     = "/" + ServiceName + "/LoadCourse"
	HistogramBrowser_SelectSemester_FullMethodName = "/" + ServiceName + "/SelectSemester"
	HistogramBrowser_SelectCategory_FullMethodName = "/" + ServiceName + "/SelectCategory"
	HistogramBrowser_ShareAction_FullMethodName    = "/" + ServiceName + "/ShareAction"
	HistogramBrowser_GetView_FullMethodName        = "/" + ServiceName + "/GetView"
)

// Request field names.
const (
	FieldSession  = "session"
	FieldCourse   = "course"
	FieldSemester = "semester"
	FieldCategory = "category"
	FieldAction   = "action"
)

// HistogramBrowserServer is the server API for the HistogramBrowser service.
type HistogramBrowserServer interface {
	// LoadCourse {session, course} -> view
	LoadCourse(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// SelectSemester {session, semester} -> view
	SelectSemester(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// SelectCategory {session, category} -> view
	SelectCategory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// ShareAction {session, action} -> view
	ShareAction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// GetView {session} -> view
	GetView(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedHistogramBrowserServer can be embedded for forward compatibility.
type UnimplementedHistogramBrowserServer struct{}

func (UnimplementedHistogramBrowserServer) LoadCourse(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method LoadCourse not implemented")
}

func (UnimplementedHistogramBrowserServer) SelectSemester(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method SelectSemester not implemented")
}

func (UnimplementedHistogramBrowserServer) SelectCategory(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method SelectCategory not implemented")
}

func (UnimplementedHistogramBrowserServer) ShareAction(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ShareAction not implemented")
}

func (UnimplementedHistogramBrowserServer) GetView(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetView not implemented")
}

func RegisterHistogramBrowserServer(s grpc.ServiceRegistrar, srv HistogramBrowserServer) {
	s.RegisterService(&HistogramBrowser_ServiceDesc, srv)
}

type unaryCall func(srv HistogramBrowserServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryCall) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(HistogramBrowserServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(HistogramBrowserServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// HistogramBrowser_ServiceDesc is the grpc.ServiceDesc for the HistogramBrowser service.
var HistogramBrowser_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*HistogramBrowserServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "LoadCourse",
			Handler: unaryHandler(HistogramBrowser_LoadCourse_FullMethodName,
				HistogramBrowserServer.LoadCourse),
		},
		{
			MethodName: "SelectSemester",
			Handler: unaryHandler(HistogramBrowser_SelectSemester_FullMethodName,
				HistogramBrowserServer.SelectSemester),
		},
		{
			MethodName: "SelectCategory",
			Handler: unaryHandler(HistogramBrowser_SelectCategory_FullMethodName,
				HistogramBrowserServer.SelectCategory),
		},
		{
			MethodName: "ShareAction",
			Handler: unaryHandler(HistogramBrowser_ShareAction_FullMethodName,
				HistogramBrowserServer.ShareAction),
		},
		{
			MethodName: "GetView",
			Handler: unaryHandler(HistogramBrowser_GetView_FullMethodName,
				HistogramBrowserServer.GetView),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "histograms/v1/browser.proto",
}

// HistogramBrowserClient is the client API for the HistogramBrowser service.
type HistogramBrowserClient interface {
	LoadCourse(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	SelectSemester(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	SelectCategory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ShareAction(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetView(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type histogramBrowserClient struct {
	cc grpc.ClientConnInterface
}

func NewHistogramBrowserClient(cc grpc.ClientConnInterface) HistogramBrowserClient {
	return &histogramBrowserClient{cc}
}

func (c *histogramBrowserClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *histogramBrowserClient) LoadCourse(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, HistogramBrowser_LoadCourse_FullMethodName, in, opts...)
}

func (c *histogramBrowserClient) SelectSemester(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, HistogramBrowser_SelectSemester_FullMethodName, in, opts...)
}

func (c *histogramBrowserClient) SelectCategory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, HistogramBrowser_SelectCategory_FullMethodName, in, opts...)
}

func (c *histogramBrowserClient) ShareAction(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, HistogramBrowser_ShareAction_FullMethodName, in, opts...)
}

func (c *histogramBrowserClient) GetView(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, HistogramBrowser_GetView_FullMethodName, in, opts...)
}

// NewRequest builds a request message from string fields.
func NewRequest(fields map[string]string) *structpb.Struct {
	s := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(fields))}
	for k, v := range fields {
		s.Fields[k] = structpb.NewStringValue(v)
	}
	return s
}
