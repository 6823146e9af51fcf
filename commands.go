/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package trovochat

// Command constants for the subset of RFC1459/IRCv3 verbs and Trovo's
// extended command set that the typed-message layer recognizes.
const (
	// RFC 1459 base
	CmdPrivmsg string = "PRIVMSG"
	CmdNotice         = "NOTICE"
	CmdPass           = "PASS"
	CmdNick           = "NICK"
	CmdPing           = "PING"
	CmdPong           = "PONG"
	CmdJoin           = "JOIN"
	CmdPart           = "PART"
	CmdQuit           = "QUIT"

	// IRCv3 base
	CmdCap = "CAP"

	// Registration numerics
	CmdReady    = "001" // RPL_WELCOME, reused by Trovo as IrcReady
	CmdGlobalUS = "GLOBALUSERSTATE"

	// Trovo extended command set
	CmdRoomState = "ROOMSTATE"
	CmdUserState = "USERSTATE"
	CmdUserNotice = "USERNOTICE"
	CmdClearChat  = "CLEARCHAT"
	CmdClearMsg   = "CLEARMSG"
	CmdHostTarget = "HOSTTARGET"
	CmdWhisper    = "WHISPER"
	CmdReconnect  = "RECONNECT"

	// Non-numeric "ready" marker Trovo sends before 001 on some revisions.
	CmdTrovoReady = "TROVOREADY"
)

// CAP sub-commands, the second positional argument of a CAP message.
const (
	CapAck = "ACK"
	CapNak = "NAK"
)
