// Package marketdata contains the hand-maintained Go bindings for
// market_data.proto. The messages carry standard protobuf wire tags, so the
// default gRPC proto codec marshals them without generated descriptors.
package marketdata

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/protoadapt"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type GetCurrentPriceRequest struct {
	Symbol string `protobuf:"bytes,1,opt,name=symbol,proto3" json:"symbol,omitempty"`
}

func (x *GetCurrentPriceRequest) Reset()         { *x = GetCurrentPriceRequest{} }
func (x *GetCurrentPriceRequest) String() string { return prototext.Format(protoadapt.MessageV2Of(x)) }
func (*GetCurrentPriceRequest) ProtoMessage()    {}

func (x *GetCurrentPriceRequest) GetSymbol() string {
	if x != nil {
		return x.Symbol
	}
	return ""
}

type GetCurrentPriceResponse struct {
	Symbol     string                 `protobuf:"bytes,1,opt,name=symbol,proto3" json:"symbol,omitempty"`
	Price      string                 `protobuf:"bytes,2,opt,name=price,proto3" json:"price,omitempty"`
	ObservedAt *timestamppb.Timestamp `protobuf:"bytes,3,opt,name=observed_at,json=observedAt,proto3" json:"observed_at,omitempty"`
}

func (x *GetCurrentPriceResponse) Reset()         { *x = GetCurrentPriceResponse{} }
func (x *GetCurrentPriceResponse) String() string { return prototext.Format(protoadapt.MessageV2Of(x)) }
func (*GetCurrentPriceResponse) ProtoMessage()    {}

func (x *GetCurrentPriceResponse) GetSymbol() string {
	if x != nil {
		return x.Symbol
	}
	return ""
}

func (x *GetCurrentPriceResponse) GetPrice() string {
	if x != nil {
		return x.Price
	}
	return ""
}

func (x *GetCurrentPriceResponse) GetObservedAt() *timestamppb.Timestamp {
	if x != nil {
		return x.ObservedAt
	}
	return nil
}

type StreamMarketDataRequest struct {
	Symbol string `protobuf:"bytes,1,opt,name=symbol,proto3" json:"symbol,omitempty"`
}

func (x *StreamMarketDataRequest) Reset()         { *x = StreamMarketDataRequest{} }
func (x *StreamMarketDataRequest) String() string { return prototext.Format(protoadapt.MessageV2Of(x)) }
func (*StreamMarketDataRequest) ProtoMessage()    {}

func (x *StreamMarketDataRequest) GetSymbol() string {
	if x != nil {
		return x.Symbol
	}
	return ""
}

type MarketDataTick struct {
	Symbol    string `protobuf:"bytes,1,opt,name=symbol,proto3" json:"symbol,omitempty"`
	Price     string `protobuf:"bytes,2,opt,name=price,proto3" json:"price,omitempty"`
	Volume    string `protobuf:"bytes,3,opt,name=volume,proto3" json:"volume,omitempty"`
	Timestamp int64  `protobuf:"varint,4,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

func (x *MarketDataTick) Reset()         { *x = MarketDataTick{} }
func (x *MarketDataTick) String() string { return prototext.Format(protoadapt.MessageV2Of(x)) }
func (*MarketDataTick) ProtoMessage()    {}

func (x *MarketDataTick) GetSymbol() string {
	if x != nil {
		return x.Symbol
	}
	return ""
}

func (x *MarketDataTick) GetPrice() string {
	if x != nil {
		return x.Price
	}
	return ""
}

func (x *MarketDataTick) GetVolume() string {
	if x != nil {
		return x.Volume
	}
	return ""
}

func (x *MarketDataTick) GetTimestamp() int64 {
	if x != nil {
		return x.Timestamp
	}
	return 0
}

const (
	MarketDataService_GetCurrentPrice_FullMethodName  = "/marketdata.v1.MarketDataService/GetCurrentPrice"
	MarketDataService_StreamMarketData_FullMethodName = "/marketdata.v1.MarketDataService/StreamMarketData"
)

// MarketDataServiceClient is the client API for MarketDataService.
type MarketDataServiceClient interface {
	GetCurrentPrice(ctx context.Context, in *GetCurrentPriceRequest, opts ...grpc.CallOption) (*GetCurrentPriceResponse, error)
	StreamMarketData(ctx context.Context, in *StreamMarketDataRequest, opts ...grpc.CallOption) (MarketDataService_StreamMarketDataClient, error)
}

type marketDataServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewMarketDataServiceClient(cc grpc.ClientConnInterface) MarketDataServiceClient {
	return &marketDataServiceClient{cc}
}

func (c *marketDataServiceClient) GetCurrentPrice(ctx context.Context, in *GetCurrentPriceRequest, opts ...grpc.CallOption) (*GetCurrentPriceResponse, error) {
	out := new(GetCurrentPriceResponse)
	err := c.cc.Invoke(ctx, MarketDataService_GetCurrentPrice_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *marketDataServiceClient) StreamMarketData(ctx context.Context, in *StreamMarketDataRequest, opts ...grpc.CallOption) (MarketDataService_StreamMarketDataClient, error) {
	stream, err := c.cc.NewStream(ctx, &MarketDataService_ServiceDesc.Streams[0], MarketDataService_StreamMarketData_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &marketDataServiceStreamMarketDataClient{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type MarketDataService_StreamMarketDataClient interface {
	Recv() (*MarketDataTick, error)
	grpc.ClientStream
}

type marketDataServiceStreamMarketDataClient struct {
	grpc.ClientStream
}

func (x *marketDataServiceStreamMarketDataClient) Recv() (*MarketDataTick, error) {
	m := new(MarketDataTick)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// MarketDataServiceServer is the server API for MarketDataService.
// All implementations must embed UnimplementedMarketDataServiceServer.
type MarketDataServiceServer interface {
	GetCurrentPrice(context.Context, *GetCurrentPriceRequest) (*GetCurrentPriceResponse, error)
	StreamMarketData(*StreamMarketDataRequest, MarketDataService_StreamMarketDataServer) error
	mustEmbedUnimplementedMarketDataServiceServer()
}

type UnimplementedMarketDataServiceServer struct{}

func (UnimplementedMarketDataServiceServer) GetCurrentPrice(context.Context, *GetCurrentPriceRequest) (*GetCurrentPriceResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetCurrentPrice not implemented")
}
func (UnimplementedMarketDataServiceServer) StreamMarketData(*StreamMarketDataRequest, MarketDataService_StreamMarketDataServer) error {
	return status.Errorf(codes.Unimplemented, "method StreamMarketData not implemented")
}
func (UnimplementedMarketDataServiceServer) mustEmbedUnimplementedMarketDataServiceServer() {}

func RegisterMarketDataServiceServer(s grpc.ServiceRegistrar, srv MarketDataServiceServer) {
	s.RegisterService(&MarketDataService_ServiceDesc, srv)
}

func _MarketDataService_GetCurrentPrice_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetCurrentPriceRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketDataServiceServer).GetCurrentPrice(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MarketDataService_GetCurrentPrice_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MarketDataServiceServer).GetCurrentPrice(ctx, req.(*GetCurrentPriceRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _MarketDataService_StreamMarketData_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(StreamMarketDataRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(MarketDataServiceServer).StreamMarketData(m, &marketDataServiceStreamMarketDataServer{ServerStream: stream})
}

type MarketDataService_StreamMarketDataServer interface {
	Send(*MarketDataTick) error
	grpc.ServerStream
}

type marketDataServiceStreamMarketDataServer struct {
	grpc.ServerStream
}

func (x *marketDataServiceStreamMarketDataServer) Send(m *MarketDataTick) error {
	return x.ServerStream.SendMsg(m)
}

// MarketDataService_ServiceDesc is the grpc.ServiceDesc for MarketDataService.
var MarketDataService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "marketdata.v1.MarketDataService",
	HandlerType: (*MarketDataServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetCurrentPrice",
			Handler:    _MarketDataService_GetCurrentPrice_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamMarketData",
			Handler:       _MarketDataService_StreamMarketData_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "pb/marketdata/market_data.proto",
}
