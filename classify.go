/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package trovochat

// classify projects a RawMessage into its typed variant and publishes it to
// d. It returns the typed value (for callers, such as the runner, that need
// to react to specific kinds inline) alongside any decode error. An
// unrecognized command never errors; it publishes as Raw.
func classify(d *Dispatcher, raw RawMessage) (any, error) {
	switch raw.Command() {
	case CmdPing:
		m, err := pingFromRaw(raw)
		if err != nil {
			return nil, err
		}
		d.Publish(m)
		return m, nil
	case CmdPong:
		m, err := pongFromRaw(raw)
		if err != nil {
			return nil, err
		}
		d.Publish(m)
		return m, nil
	case CmdCap:
		m, err := capFromRaw(raw)
		if err != nil {
			return nil, err
		}
		d.Publish(m)
		return m, nil
	case CmdPrivmsg:
		m, err := privmsgFromRaw(raw)
		if err != nil {
			return nil, err
		}
		d.Publish(m)
		return m, nil
	case CmdWhisper:
		m, err := whisperFromRaw(raw)
		if err != nil {
			return nil, err
		}
		d.Publish(m)
		return m, nil
	case CmdJoin:
		m, err := joinFromRaw(raw)
		if err != nil {
			return nil, err
		}
		d.Publish(m)
		return m, nil
	case CmdPart:
		m, err := partFromRaw(raw)
		if err != nil {
			return nil, err
		}
		d.Publish(m)
		return m, nil
	case CmdRoomState:
		m, err := roomStateFromRaw(raw)
		if err != nil {
			return nil, err
		}
		d.Publish(m)
		return m, nil
	case CmdUserState:
		m, err := userStateFromRaw(raw)
		if err != nil {
			return nil, err
		}
		d.Publish(m)
		return m, nil
	case CmdGlobalUS:
		m, err := globalUserStateFromRaw(raw)
		if err != nil {
			return nil, err
		}
		d.Publish(m)
		return m, nil
	case CmdUserNotice:
		m, err := userNoticeFromRaw(raw)
		if err != nil {
			return nil, err
		}
		d.Publish(m)
		return m, nil
	case CmdClearChat:
		m, err := clearChatFromRaw(raw)
		if err != nil {
			return nil, err
		}
		d.Publish(m)
		return m, nil
	case CmdClearMsg:
		m, err := clearMsgFromRaw(raw)
		if err != nil {
			return nil, err
		}
		d.Publish(m)
		return m, nil
	case CmdNotice:
		m, err := noticeFromRaw(raw)
		if err != nil {
			return nil, err
		}
		d.Publish(m)
		return m, nil
	case CmdHostTarget:
		m, err := hostTargetFromRaw(raw)
		if err != nil {
			return nil, err
		}
		d.Publish(m)
		return m, nil
	case CmdReconnect:
		m, err := reconnectFromRaw(raw)
		if err != nil {
			return nil, err
		}
		d.Publish(m)
		return m, nil
	case CmdTrovoReady:
		m, err := readyFromRaw(raw)
		if err != nil {
			return nil, err
		}
		d.Publish(m)
		return m, nil
	case CmdReady:
		m, err := ircReadyFromRaw(raw)
		if err != nil {
			return nil, err
		}
		d.Publish(m)
		return m, nil
	default:
		m := rawFromRaw(raw)
		d.Publish(m)
		return m, nil
	}
}
