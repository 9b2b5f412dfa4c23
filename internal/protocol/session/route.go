package session

import (
	"fmt"

	"github.com/danmuck/tlwire/internal/protocol/mtproto"
	"github.com/danmuck/tlwire/internal/protocol/tl"
)

type RouteKind int

const (
	// RouteUpdate is a server-initiated object for the update handlers.
	RouteUpdate RouteKind = iota
	// RouteResult answers the pending request with MsgID.
	RouteResult
	// RouteAck asks for MsgID to be acknowledged and carries nothing else.
	RouteAck
	// RouteIgnore needs no action.
	RouteIgnore
)

func (k RouteKind) String() string {
	switch k {
	case RouteUpdate:
		return "update"
	case RouteResult:
		return "result"
	case RouteAck:
		return "ack"
	case RouteIgnore:
		return "ignore"
	}
	return fmt.Sprintf("RouteKind(%d)", int(k))
}

// Route is where one incoming message goes. Value is the rpc_result payload
// for results and the body otherwise.
type Route struct {
	Kind  RouteKind
	MsgID int64
	Value tl.Object
}

// RouteMessage classifies one server message by its body.
func RouteMessage(msg *tl.Message) Route {
	switch body := msg.Body.(type) {
	case *mtproto.MsgDetailedInfo:
		return Route{Kind: RouteAck, MsgID: body.AnswerMsgID, Value: body}
	case *mtproto.MsgNewDetailedInfo:
		return Route{Kind: RouteAck, MsgID: body.AnswerMsgID, Value: body}
	case *mtproto.NewSessionCreated:
		return Route{Kind: RouteIgnore, MsgID: msg.MsgID, Value: body}
	case *mtproto.BadMsgNotification:
		return Route{Kind: RouteResult, MsgID: body.BadMsgID, Value: body}
	case *mtproto.BadServerSalt:
		return Route{Kind: RouteResult, MsgID: body.BadMsgID, Value: body}
	case *tl.FutureSalts:
		return Route{Kind: RouteResult, MsgID: body.ReqMsgID, Value: body}
	case *mtproto.RpcResult:
		return Route{Kind: RouteResult, MsgID: body.ReqMsgID, Value: body.Result}
	case *mtproto.Pong:
		return Route{Kind: RouteResult, MsgID: body.MsgID, Value: body}
	}
	return Route{Kind: RouteUpdate, MsgID: msg.MsgID, Value: msg.Body}
}

var badMsgDescriptions = map[int32]string{
	16: "msg_id too low, the client time has to be synchronized",
	17: "msg_id too high, the client time has to be synchronized",
	18: "incorrect two lower order msg_id bits, the server expects client message msg_id to be divisible by 4",
	19: "container msg_id is the same as msg_id of a previously received message",
	20: "message too old, it cannot be verified by the server",
	32: "msg_seqno too low",
	33: "msg_seqno too high",
	34: "an even msg_seqno expected, but odd received",
	35: "odd msg_seqno expected, but even received",
	48: "incorrect server salt",
	64: "invalid container",
}

func BadMsgDescription(code int32) string {
	if d, ok := badMsgDescriptions[code]; ok {
		return fmt.Sprintf("[%d] %s", code, d)
	}
	return fmt.Sprintf("Error code %d", code)
}

// RPCError is an rpc_error answer.
type RPCError struct {
	Code    int32
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("session: rpc error %d: %s", e.Code, e.Message)
}

// BadMsgError is a bad_msg_notification answer.
type BadMsgError struct {
	MsgID int64
	Code  int32
}

func (e *BadMsgError) Error() string {
	return "session: bad message: " + BadMsgDescription(e.Code)
}

// ResultError turns error answers into Go errors and returns nil for any
// other result value.
func ResultError(v tl.Object) error {
	switch r := v.(type) {
	case *mtproto.RpcError:
		return &RPCError{Code: r.ErrorCode, Message: r.ErrorMessage}
	case *mtproto.BadMsgNotification:
		return &BadMsgError{MsgID: r.BadMsgID, Code: r.ErrorCode}
	}
	return nil
}
