package mtproto

import "github.com/danmuck/tlwire/internal/protocol/tl"

var entries = []tl.Entry{
	{ID: PingID, Name: "ping", Factory: readPing},
	{ID: PingDelayDisconnectID, Name: "ping_delay_disconnect", Factory: readPingDelayDisconnect},
	{ID: PongID, Name: "pong", Factory: readPong},
	{ID: HttpWaitID, Name: "http_wait", Factory: readHttpWait},
	{ID: MsgsAckID, Name: "msgs_ack", Factory: readMsgsAck},
	{ID: RpcResultID, Name: "rpc_result", Factory: readRpcResult},
	{ID: RpcErrorID, Name: "rpc_error", Factory: readRpcError},
	{ID: BadMsgNotificationID, Name: "bad_msg_notification", Factory: readBadMsgNotification},
	{ID: BadServerSaltID, Name: "bad_server_salt", Factory: readBadServerSalt},
	{ID: NewSessionCreatedID, Name: "new_session_created", Factory: readNewSessionCreated},
	{ID: MsgDetailedInfoID, Name: "msg_detailed_info", Factory: readMsgDetailedInfo},
	{ID: MsgNewDetailedInfoID, Name: "msg_new_detailed_info", Factory: readMsgNewDetailedInfo},
	{ID: GetFutureSaltsID, Name: "get_future_salts", Factory: readGetFutureSalts},
	{ID: InvokeWithLayerID, Name: "invokeWithLayer", Factory: readInvokeWithLayer},
	{ID: UpdatesGetDifferenceID, Name: "updates.getDifference", Factory: readUpdatesGetDifference},
}

// Register installs every service constructor in b.
func Register(b *tl.Builder) error {
	for _, e := range entries {
		if err := b.Register(e.ID, e.Name, e.Factory); err != nil {
			return err
		}
	}
	return nil
}

// Entries lists the service constructors in registration order.
func Entries() []tl.Entry {
	out := make([]tl.Entry, len(entries))
	copy(out, entries)
	return out
}
