/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package trovochat

import "strings"

const actionMarker = "\x01ACTION "
const actionTrailer = "\x01"

// Ping is a server keepalive probe. Reply contract: echo the token back via
// Pong as soon as possible.
type Ping struct {
	raw   RawMessage
	Token string
}

func pingFromRaw(raw RawMessage) (Ping, error) {
	if err := raw.expectCommand(CmdPing); err != nil {
		return Ping{}, err
	}
	token, err := raw.expectData()
	if err != nil {
		return Ping{}, err
	}
	return Ping{raw: raw, Token: token}, nil
}

// IntoOwned promotes the message to not alias the frame buffer.
func (m Ping) IntoOwned() Ping { m.raw = m.raw.IntoOwned(); return m }

// Pong is the client's (or, rarely, the server's) keepalive response.
type Pong struct {
	raw   RawMessage
	Token string
}

func pongFromRaw(raw RawMessage) (Pong, error) {
	if err := raw.expectCommand(CmdPong); err != nil {
		return Pong{}, err
	}
	token, err := raw.expectData()
	if err != nil {
		return Pong{}, err
	}
	return Pong{raw: raw, Token: token}, nil
}

func (m Pong) IntoOwned() Pong { m.raw = m.raw.IntoOwned(); return m }

// Cap reports the server's response to one CAP REQ, either ACK or NAK.
type Cap struct {
	raw        RawMessage
	Ack        bool
	Capability string
}

func capFromRaw(raw RawMessage) (Cap, error) {
	if err := raw.expectCommand(CmdCap); err != nil {
		return Cap{}, err
	}
	sub, err := raw.expectArg(1)
	if err != nil {
		return Cap{}, err
	}
	var ack bool
	switch sub {
	case CapAck:
		ack = true
	case CapNak:
		ack = false
	default:
		return Cap{}, &ArgError{Index: 1, Raw: raw.Raw()}
	}
	cap, err := raw.expectData()
	if err != nil {
		return Cap{}, err
	}
	return Cap{raw: raw, Ack: ack, Capability: cap}, nil
}

func (m Cap) IntoOwned() Cap { m.raw = m.raw.IntoOwned(); return m }

// Privmsg is a channel chat message.
type Privmsg struct {
	raw     RawMessage
	Channel string
	Name    string
	Data    string
	Action  bool
}

func privmsgFromRaw(raw RawMessage) (Privmsg, error) {
	if err := raw.expectCommand(CmdPrivmsg); err != nil {
		return Privmsg{}, err
	}
	channel, err := raw.expectArg(0)
	if err != nil {
		return Privmsg{}, err
	}
	data, err := raw.expectData()
	if err != nil {
		return Privmsg{}, err
	}
	nick, _ := raw.Nick()

	msg := Privmsg{raw: raw, Channel: channel, Name: nick, Data: data}
	if strings.HasPrefix(data, actionMarker) && strings.HasSuffix(data, actionTrailer) {
		msg.Action = true
		msg.Data = strings.TrimSuffix(strings.TrimPrefix(data, actionMarker), actionTrailer)
	}
	return msg, nil
}

// Tag looks up a tag on the underlying raw message.
func (m Privmsg) Tag(key string) (string, bool) { return m.raw.Tag(key) }

func (m Privmsg) IntoOwned() Privmsg {
	m.raw = m.raw.IntoOwned()
	return m
}

// Whisper is a direct message between users, delivered out of channel.
type Whisper struct {
	raw  RawMessage
	Name string
	Data string
}

func whisperFromRaw(raw RawMessage) (Whisper, error) {
	if err := raw.expectCommand(CmdWhisper); err != nil {
		return Whisper{}, err
	}
	data, err := raw.expectData()
	if err != nil {
		return Whisper{}, err
	}
	nick, _ := raw.Nick()
	return Whisper{raw: raw, Name: nick, Data: data}, nil
}

func (m Whisper) Tag(key string) (string, bool) { return m.raw.Tag(key) }
func (m Whisper) IntoOwned() Whisper             { m.raw = m.raw.IntoOwned(); return m }

// Join announces that a user (possibly this client) joined a channel.
type Join struct {
	raw     RawMessage
	Channel string
	Name    string
}

func joinFromRaw(raw RawMessage) (Join, error) {
	if err := raw.expectCommand(CmdJoin); err != nil {
		return Join{}, err
	}
	channel, err := raw.expectArg(0)
	if err != nil {
		return Join{}, err
	}
	nick, _ := raw.Nick()
	return Join{raw: raw, Channel: channel, Name: nick}, nil
}

func (m Join) IntoOwned() Join { m.raw = m.raw.IntoOwned(); return m }

// Part announces that a user (possibly this client) left a channel.
type Part struct {
	raw     RawMessage
	Channel string
	Name    string
}

func partFromRaw(raw RawMessage) (Part, error) {
	if err := raw.expectCommand(CmdPart); err != nil {
		return Part{}, err
	}
	channel, err := raw.expectArg(0)
	if err != nil {
		return Part{}, err
	}
	nick, _ := raw.Nick()
	return Part{raw: raw, Channel: channel, Name: nick}, nil
}

func (m Part) IntoOwned() Part { m.raw = m.raw.IntoOwned(); return m }

// RoomState carries per-channel settings (slow mode, followers-only, ...)
// as an opaque tag bag; absent optional tags yield ok=false from Tag, never
// an error.
type RoomState struct {
	raw     RawMessage
	Channel string
}

func roomStateFromRaw(raw RawMessage) (RoomState, error) {
	if err := raw.expectCommand(CmdRoomState); err != nil {
		return RoomState{}, err
	}
	channel, err := raw.expectArg(0)
	if err != nil {
		return RoomState{}, err
	}
	return RoomState{raw: raw, Channel: channel}, nil
}

func (m RoomState) Tag(key string) (string, bool) { return m.raw.Tag(key) }
func (m RoomState) IntoOwned() RoomState           { m.raw = m.raw.IntoOwned(); return m }

// UserState carries the client's own per-channel badges and permissions.
type UserState struct {
	raw     RawMessage
	Channel string
}

func userStateFromRaw(raw RawMessage) (UserState, error) {
	if err := raw.expectCommand(CmdUserState); err != nil {
		return UserState{}, err
	}
	channel, err := raw.expectArg(0)
	if err != nil {
		return UserState{}, err
	}
	return UserState{raw: raw, Channel: channel}, nil
}

func (m UserState) Tag(key string) (string, bool) { return m.raw.Tag(key) }

// IsModerator reports whether the "mod" tag is set to "1".
func (m UserState) IsModerator() bool {
	v, _ := m.Tag("mod")
	return v == "1"
}

func (m UserState) IntoOwned() UserState { m.raw = m.raw.IntoOwned(); return m }

// GlobalUserState is sent once at registration, summarizing the client's
// global identity (user id, display name, color, global badges).
type GlobalUserState struct {
	raw RawMessage
}

func globalUserStateFromRaw(raw RawMessage) (GlobalUserState, error) {
	if err := raw.expectCommand(CmdGlobalUS); err != nil {
		return GlobalUserState{}, err
	}
	return GlobalUserState{raw: raw}, nil
}

func (m GlobalUserState) Tag(key string) (string, bool) { return m.raw.Tag(key) }
func (m GlobalUserState) IntoOwned() GlobalUserState     { m.raw = m.raw.IntoOwned(); return m }

// UserNotice announces an event tied to a channel but not to a single chat
// line: subscriptions, raids, rituals. The system message, if any, is the
// trailing data; the specific event is identified by the msg-id tag.
type UserNotice struct {
	raw     RawMessage
	Channel string
	MsgID   string
	Message string
}

func userNoticeFromRaw(raw RawMessage) (UserNotice, error) {
	if err := raw.expectCommand(CmdUserNotice); err != nil {
		return UserNotice{}, err
	}
	channel, err := raw.expectArg(0)
	if err != nil {
		return UserNotice{}, err
	}
	msgID, err := raw.expectTag("msg-id")
	if err != nil {
		return UserNotice{}, err
	}
	msg, _ := raw.Data()
	return UserNotice{raw: raw, Channel: channel, MsgID: msgID, Message: msg}, nil
}

func (m UserNotice) Tag(key string) (string, bool) { return m.raw.Tag(key) }
func (m UserNotice) IntoOwned() UserNotice          { m.raw = m.raw.IntoOwned(); return m }

// ClearChat reports a channel-wide or single-user chat clear (timeout/ban).
// Timeout is true when the ban-duration tag was present, in which case
// Duration holds the timeout length in seconds; a permanent ban carries no
// ban-duration tag at all, leaving both zero.
type ClearChat struct {
	raw      RawMessage
	Channel  string
	Name     string
	Duration int
	Timeout  bool
}

func clearChatFromRaw(raw RawMessage) (ClearChat, error) {
	if err := raw.expectCommand(CmdClearChat); err != nil {
		return ClearChat{}, err
	}
	channel, err := raw.expectArg(0)
	if err != nil {
		return ClearChat{}, err
	}
	name, _ := raw.Data()
	duration, timeout, err := raw.expectTagInt("ban-duration")
	if err != nil {
		return ClearChat{}, err
	}
	return ClearChat{raw: raw, Channel: channel, Name: name, Duration: duration, Timeout: timeout}, nil
}

func (m ClearChat) Tag(key string) (string, bool) { return m.raw.Tag(key) }
func (m ClearChat) IntoOwned() ClearChat           { m.raw = m.raw.IntoOwned(); return m }

// ClearMsg reports a single deleted chat line, identified by target-msg-id.
type ClearMsg struct {
	raw     RawMessage
	Channel string
	Message string
}

func clearMsgFromRaw(raw RawMessage) (ClearMsg, error) {
	if err := raw.expectCommand(CmdClearMsg); err != nil {
		return ClearMsg{}, err
	}
	channel, err := raw.expectArg(0)
	if err != nil {
		return ClearMsg{}, err
	}
	msg, _ := raw.Data()
	return ClearMsg{raw: raw, Channel: channel, Message: msg}, nil
}

func (m ClearMsg) Tag(key string) (string, bool) { return m.raw.Tag(key) }
func (m ClearMsg) IntoOwned() ClearMsg            { m.raw = m.raw.IntoOwned(); return m }

// Notice is a server informational or error message, identified by msg-id.
type Notice struct {
	raw     RawMessage
	Channel string
	Message string
}

func noticeFromRaw(raw RawMessage) (Notice, error) {
	if err := raw.expectCommand(CmdNotice); err != nil {
		return Notice{}, err
	}
	channel, err := raw.expectArg(0)
	if err != nil {
		return Notice{}, err
	}
	msg, err := raw.expectData()
	if err != nil {
		return Notice{}, err
	}
	return Notice{raw: raw, Channel: channel, Message: msg}, nil
}

func (m Notice) Tag(key string) (string, bool) { return m.raw.Tag(key) }
func (m Notice) IntoOwned() Notice              { m.raw = m.raw.IntoOwned(); return m }

// HostTarget reports the start or end of a channel host.
type HostTarget struct {
	raw            RawMessage
	HostingChannel string
	TargetChannel  string
	Ended          bool
}

func hostTargetFromRaw(raw RawMessage) (HostTarget, error) {
	if err := raw.expectCommand(CmdHostTarget); err != nil {
		return HostTarget{}, err
	}
	hosting, err := raw.expectArg(0)
	if err != nil {
		return HostTarget{}, err
	}
	data, err := raw.expectData()
	if err != nil {
		return HostTarget{}, err
	}
	target := strings.Fields(data)
	result := HostTarget{raw: raw, HostingChannel: hosting}
	if len(target) == 0 || target[0] == "-" {
		result.Ended = true
		return result, nil
	}
	result.TargetChannel = target[0]
	return result, nil
}

func (m HostTarget) IntoOwned() HostTarget { m.raw = m.raw.IntoOwned(); return m }

// Reconnect tells the client to gracefully reconnect, usually ahead of
// planned server maintenance.
type Reconnect struct {
	raw RawMessage
}

func reconnectFromRaw(raw RawMessage) (Reconnect, error) {
	if err := raw.expectCommand(CmdReconnect); err != nil {
		return Reconnect{}, err
	}
	return Reconnect{raw: raw}, nil
}

func (m Reconnect) IntoOwned() Reconnect { m.raw = m.raw.IntoOwned(); return m }

// Ready is an early, non-numeric welcome marker some revisions send ahead
// of IrcReady.
type Ready struct {
	raw RawMessage
}

func readyFromRaw(raw RawMessage) (Ready, error) {
	if err := raw.expectCommand(CmdTrovoReady); err != nil {
		return Ready{}, err
	}
	return Ready{raw: raw}, nil
}

func (m Ready) IntoOwned() Ready { m.raw = m.raw.IntoOwned(); return m }

// IrcReady is the RPL_WELCOME (001) numeric marking the end of
// registration, carrying the server-confirmed nickname.
type IrcReady struct {
	raw  RawMessage
	Nick string
}

func ircReadyFromRaw(raw RawMessage) (IrcReady, error) {
	if err := raw.expectCommand(CmdReady); err != nil {
		return IrcReady{}, err
	}
	nick, err := raw.expectArg(0)
	if err != nil {
		return IrcReady{}, err
	}
	return IrcReady{raw: raw, Nick: nick}, nil
}

func (m IrcReady) IntoOwned() IrcReady { m.raw = m.raw.IntoOwned(); return m }

// Raw is the fallthrough variant for any command not otherwise recognized.
// It always succeeds, so new server commands never break decoding.
type Raw struct {
	raw RawMessage
}

func rawFromRaw(raw RawMessage) Raw {
	return Raw{raw: raw}
}

// Message returns the underlying RawMessage for callers that want to
// inspect an unrecognized command's fields directly.
func (m Raw) Message() RawMessage { return m.raw }

func (m Raw) IntoOwned() Raw { m.raw = m.raw.IntoOwned(); return m }

// Command returns the unrecognized message's command token.
func (m Raw) Command() string { return m.raw.Command() }
