package grpc

import (
	"context"
	"fmt"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jsamuelsen/go-error-filters/internal/domain"
	"github.com/jsamuelsen/go-error-filters/internal/ports"
)

const (
	messagesService = "errfilter.v1.Messages"

	// MethodGetMessage is the full method name of Messages.GetMessage.
	MethodGetMessage = "/" + messagesService + "/GetMessage"
)

// MessageCatalog is the message service plus a key existence check.
type MessageCatalog interface {
	ports.MessageService
	Exists(key string) bool
}

// MessagesServer resolves catalog messages over gRPC. Requests and responses
// are google.protobuf.Struct values:
//
//	request:  {"key": "message.greeting", "languages": ["fr"], "properties": {"name": "Ada"}}
//	response: {"key": "message.greeting", "message": "Bonjour, Ada !"}
//
// Several languages yield a message object keyed by language. A missing or
// unknown key fails with an RPC exception.
type MessagesServer interface {
	GetMessage(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

type messagesServer struct {
	messages MessageCatalog
}

// NewMessagesServer creates the Messages service backed by messages.
func NewMessagesServer(messages MessageCatalog) MessagesServer {
	return &messagesServer{messages: messages}
}

// RegisterMessagesServer registers srv on s.
func RegisterMessagesServer(s gogrpc.ServiceRegistrar, srv MessagesServer) {
	s.RegisterService(&messagesServiceDesc, srv)
}

func (s *messagesServer) GetMessage(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	fields := in.GetFields()

	key := fields["key"].GetStringValue()
	if key == "" {
		return nil, domain.NewRPCException(map[string]any{
			"error":    domain.MessageKeyValidation,
			"property": "key",
		})
	}

	if !s.messages.Exists(key) {
		return nil, domain.NewRPCException(map[string]any{
			"error": domain.MessageKeyMessageMissing,
			"key":   key,
		})
	}

	var languages []string
	for _, v := range fields["languages"].GetListValue().GetValues() {
		if lang := v.GetStringValue(); lang != "" {
			languages = append(languages, lang)
		}
	}

	msg := domain.Message{Key: key, Properties: fields["properties"].GetStructValue().AsMap()}

	localized, err := s.messages.Get(ctx, msg, ports.MessageOptions{Languages: languages})
	if err != nil {
		return nil, fmt.Errorf("resolving message %q: %w", key, err)
	}

	var message any = localized.Text
	if localized.IsMulti() {
		byLanguage := make(map[string]any, len(localized.ByLanguage))
		for lang, text := range localized.ByLanguage {
			byLanguage[lang] = text
		}

		message = byLanguage
	}

	return structpb.NewStruct(map[string]any{"key": key, "message": message})
}

func getMessageHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor gogrpc.UnaryServerInterceptor,
) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MessagesServer).GetMessage(ctx, req.(*structpb.Struct))
	}

	if interceptor == nil {
		return handler(ctx, in)
	}

	return interceptor(ctx, in, &gogrpc.UnaryServerInfo{Server: srv, FullMethod: MethodGetMessage}, handler)
}

var messagesServiceDesc = gogrpc.ServiceDesc{
	ServiceName: messagesService,
	HandlerType: (*MessagesServer)(nil),
	Methods: []gogrpc.MethodDesc{
		{MethodName: "GetMessage", Handler: getMessageHandler},
	},
	Metadata: "errfilter/v1/messages.proto",
}
