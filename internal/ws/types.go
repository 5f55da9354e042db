package ws

const (
	// client - server
	MsgCreateRoom     = "create_room"
	MsgJoinRoom       = "join_room"
	MsgStartGame      = "start_game"
	MsgTargetHit      = "target_hit"
	MsgSubmitSequence = "submit_sequence"

	// server - client
	MsgReady = "ready"
)
