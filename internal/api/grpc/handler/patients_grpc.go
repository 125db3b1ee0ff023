package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// PatientsServiceName is the fully qualified gRPC service name.
const PatientsServiceName = "dietcare.v1.Patients"

// Full method names of the Patients service.
const (
	PatientsCreatePatientMethod = "/" + PatientsServiceName + "/CreatePatient"
	PatientsGetPatientMethod    = "/" + PatientsServiceName + "/GetPatient"
	PatientsListPatientsMethod  = "/" + PatientsServiceName + "/ListPatients"
	PatientsUpdatePatientMethod = "/" + PatientsServiceName + "/UpdatePatient"
	PatientsDeletePatientMethod = "/" + PatientsServiceName + "/DeletePatient"
)

// PatientsServer is the server API for the Patients service. Requests and
// responses are google.protobuf.Struct documents keyed by attribute name.
type PatientsServer interface {
	CreatePatient(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetPatient(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListPatients(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdatePatient(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeletePatient(context.Context, *structpb.Struct) (*emptypb.Empty, error)
}

// RegisterPatientsServer registers srv on s.
func RegisterPatientsServer(s grpc.ServiceRegistrar, srv PatientsServer) {
	s.RegisterService(&PatientsServiceDesc, srv)
}

// PatientsServiceDesc is the grpc.ServiceDesc for the Patients service.
var PatientsServiceDesc = grpc.ServiceDesc{
	ServiceName: PatientsServiceName,
	HandlerType: (*PatientsServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreatePatient",
			Handler:    unaryHandler(PatientsCreatePatientMethod, PatientsServer.CreatePatient),
		},
		{
			MethodName: "GetPatient",
			Handler:    unaryHandler(PatientsGetPatientMethod, PatientsServer.GetPatient),
		},
		{
			MethodName: "ListPatients",
			Handler:    unaryHandler(PatientsListPatientsMethod, PatientsServer.ListPatients),
		},
		{
			MethodName: "UpdatePatient",
			Handler:    unaryHandler(PatientsUpdatePatientMethod, PatientsServer.UpdatePatient),
		},
		{
			MethodName: "DeletePatient",
			Handler:    unaryHandler(PatientsDeletePatientMethod, PatientsServer.DeletePatient),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dietcare/v1/patients.proto",
}

func unaryHandler[Resp any](
	fullMethod string,
	call func(PatientsServer, context.Context, *structpb.Struct) (Resp, error),
) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PatientsServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(PatientsServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// PatientsClient is the client API for the Patients service.
type PatientsClient struct {
	cc grpc.ClientConnInterface
}

// NewPatientsClient creates a client over cc.
func NewPatientsClient(cc grpc.ClientConnInterface) *PatientsClient {
	return &PatientsClient{cc: cc}
}

func (c *PatientsClient) CreatePatient(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, PatientsCreatePatientMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *PatientsClient) GetPatient(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, PatientsGetPatientMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *PatientsClient) ListPatients(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, PatientsListPatientsMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *PatientsClient) UpdatePatient(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, PatientsUpdatePatientMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *PatientsClient) DeletePatient(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, PatientsDeletePatientMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
