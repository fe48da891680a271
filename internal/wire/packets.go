package wire

// --- Client <-> Login (spec §6) ---

type LoginReq struct {
	ID       string
	Password string
}

func (p LoginReq) Encode() []byte {
	w := NewWriter()
	w.String(p.ID)
	w.String(p.Password)
	return w.Bytes()
}

func DecodeLoginReq(payload []byte) (LoginReq, error) {
	r := NewReader(payload)
	id, err := r.String()
	if err != nil {
		return LoginReq{}, err
	}
	pw, err := r.String()
	if err != nil {
		return LoginReq{}, err
	}
	return LoginReq{ID: id, Password: pw}, nil
}

type LoginRes struct {
	Success bool
}

func (p LoginRes) Encode() []byte {
	w := NewWriter()
	w.Bool(p.Success)
	return w.Bytes()
}

func DecodeLoginRes(payload []byte) (LoginRes, error) {
	r := NewReader(payload)
	ok, err := r.Bool()
	if err != nil {
		return LoginRes{}, err
	}
	return LoginRes{Success: ok}, nil
}

type WorldSelectReq struct {
	WorldID int32
}

func (p WorldSelectReq) Encode() []byte {
	w := NewWriter()
	w.Int32(p.WorldID)
	return w.Bytes()
}

func DecodeWorldSelectReq(payload []byte) (WorldSelectReq, error) {
	r := NewReader(payload)
	id, err := r.Int32()
	if err != nil {
		return WorldSelectReq{}, err
	}
	return WorldSelectReq{WorldID: id}, nil
}

type LoginClientWorldSelectRes struct {
	Success      bool
	GatewayIP    string
	GatewayPort  int32
	SessionToken string
}

func (p LoginClientWorldSelectRes) Encode() []byte {
	w := NewWriter()
	w.Bool(p.Success)
	w.String(p.GatewayIP)
	w.Int32(p.GatewayPort)
	w.String(p.SessionToken)
	return w.Bytes()
}

func DecodeLoginClientWorldSelectRes(payload []byte) (LoginClientWorldSelectRes, error) {
	r := NewReader(payload)
	var p LoginClientWorldSelectRes
	var err error
	if p.Success, err = r.Bool(); err != nil {
		return p, err
	}
	if p.GatewayIP, err = r.String(); err != nil {
		return p, err
	}
	if p.GatewayPort, err = r.Int32(); err != nil {
		return p, err
	}
	if p.SessionToken, err = r.String(); err != nil {
		return p, err
	}
	return p, nil
}

// --- Login <-> World (S2S) ---

type LoginWorldSelectReq struct {
	AccountID string
	WorldID   int32
}

func (p LoginWorldSelectReq) Encode() []byte {
	w := NewWriter()
	w.String(p.AccountID)
	w.Int32(p.WorldID)
	return w.Bytes()
}

func DecodeLoginWorldSelectReq(payload []byte) (LoginWorldSelectReq, error) {
	r := NewReader(payload)
	var p LoginWorldSelectReq
	var err error
	if p.AccountID, err = r.String(); err != nil {
		return p, err
	}
	if p.WorldID, err = r.Int32(); err != nil {
		return p, err
	}
	return p, nil
}

type WorldLoginSelectRes struct {
	AccountID    string
	Success      bool
	GatewayIP    string
	GatewayPort  int32
	SessionToken string
}

func (p WorldLoginSelectRes) Encode() []byte {
	w := NewWriter()
	w.String(p.AccountID)
	w.Bool(p.Success)
	w.String(p.GatewayIP)
	w.Int32(p.GatewayPort)
	w.String(p.SessionToken)
	return w.Bytes()
}

func DecodeWorldLoginSelectRes(payload []byte) (WorldLoginSelectRes, error) {
	r := NewReader(payload)
	var p WorldLoginSelectRes
	var err error
	if p.AccountID, err = r.String(); err != nil {
		return p, err
	}
	if p.Success, err = r.Bool(); err != nil {
		return p, err
	}
	if p.GatewayIP, err = r.String(); err != nil {
		return p, err
	}
	if p.GatewayPort, err = r.Int32(); err != nil {
		return p, err
	}
	if p.SessionToken, err = r.String(); err != nil {
		return p, err
	}
	return p, nil
}

// --- Client <-> Gateway ---

type ConnectReq struct {
	AccountID    string
	SessionToken string
}

func (p ConnectReq) Encode() []byte {
	w := NewWriter()
	w.String(p.AccountID)
	w.String(p.SessionToken)
	return w.Bytes()
}

func DecodeConnectReq(payload []byte) (ConnectReq, error) {
	r := NewReader(payload)
	var p ConnectReq
	var err error
	if p.AccountID, err = r.String(); err != nil {
		return p, err
	}
	if p.SessionToken, err = r.String(); err != nil {
		return p, err
	}
	return p, nil
}

type ConnectRes struct {
	Success bool
}

func (p ConnectRes) Encode() []byte {
	w := NewWriter()
	w.Bool(p.Success)
	return w.Bytes()
}

func DecodeConnectRes(payload []byte) (ConnectRes, error) {
	r := NewReader(payload)
	ok, err := r.Bool()
	if err != nil {
		return ConnectRes{}, err
	}
	return ConnectRes{Success: ok}, nil
}

type ChatReq struct {
	Msg string
}

func (p ChatReq) Encode() []byte {
	w := NewWriter()
	w.String(p.Msg)
	return w.Bytes()
}

func DecodeChatReq(payload []byte) (ChatReq, error) {
	r := NewReader(payload)
	msg, err := r.String()
	if err != nil {
		return ChatReq{}, err
	}
	return ChatReq{Msg: msg}, nil
}

type ChatRes struct {
	AccountID string
	Msg       string
}

func (p ChatRes) Encode() []byte {
	w := NewWriter()
	w.String(p.AccountID)
	w.String(p.Msg)
	return w.Bytes()
}

func DecodeChatRes(payload []byte) (ChatRes, error) {
	r := NewReader(payload)
	var p ChatRes
	var err error
	if p.AccountID, err = r.String(); err != nil {
		return p, err
	}
	if p.Msg, err = r.String(); err != nil {
		return p, err
	}
	return p, nil
}

type MoveReq struct {
	X, Y, Z, Yaw int32
}

func (p MoveReq) Encode() []byte {
	w := NewWriter()
	w.Int32(p.X)
	w.Int32(p.Y)
	w.Int32(p.Z)
	w.Int32(p.Yaw)
	return w.Bytes()
}

func DecodeMoveReq(payload []byte) (MoveReq, error) {
	r := NewReader(payload)
	var p MoveReq
	var err error
	if p.X, err = r.Int32(); err != nil {
		return p, err
	}
	if p.Y, err = r.Int32(); err != nil {
		return p, err
	}
	if p.Z, err = r.Int32(); err != nil {
		return p, err
	}
	if p.Yaw, err = r.Int32(); err != nil {
		return p, err
	}
	return p, nil
}

type MoveRes struct {
	AccountID    string
	X, Y, Z, Yaw int32
}

func (p MoveRes) Encode() []byte {
	w := NewWriter()
	w.String(p.AccountID)
	w.Int32(p.X)
	w.Int32(p.Y)
	w.Int32(p.Z)
	w.Int32(p.Yaw)
	return w.Bytes()
}

func DecodeMoveRes(payload []byte) (MoveRes, error) {
	r := NewReader(payload)
	var p MoveRes
	var err error
	if p.AccountID, err = r.String(); err != nil {
		return p, err
	}
	if p.X, err = r.Int32(); err != nil {
		return p, err
	}
	if p.Y, err = r.Int32(); err != nil {
		return p, err
	}
	if p.Z, err = r.Int32(); err != nil {
		return p, err
	}
	if p.Yaw, err = r.Int32(); err != nil {
		return p, err
	}
	return p, nil
}

type AttackReq struct {
	TargetUID uint32
}

func (p AttackReq) Encode() []byte {
	w := NewWriter()
	w.Uint32(p.TargetUID)
	return w.Bytes()
}

func DecodeAttackReq(payload []byte) (AttackReq, error) {
	r := NewReader(payload)
	uid, err := r.Uint32()
	if err != nil {
		return AttackReq{}, err
	}
	return AttackReq{TargetUID: uid}, nil
}

type AttackRes struct {
	AttackerUID    uint32
	TargetAccountID string
	Damage         int32
	TargetRemainHP int32
}

func (p AttackRes) Encode() []byte {
	w := NewWriter()
	w.Uint32(p.AttackerUID)
	w.String(p.TargetAccountID)
	w.Int32(p.Damage)
	w.Int32(p.TargetRemainHP)
	return w.Bytes()
}

func DecodeAttackRes(payload []byte) (AttackRes, error) {
	r := NewReader(payload)
	var p AttackRes
	var err error
	if p.AttackerUID, err = r.Uint32(); err != nil {
		return p, err
	}
	if p.TargetAccountID, err = r.String(); err != nil {
		return p, err
	}
	if p.Damage, err = r.Int32(); err != nil {
		return p, err
	}
	if p.TargetRemainHP, err = r.Int32(); err != nil {
		return p, err
	}
	return p, nil
}

// --- Gateway <-> Game (S2S) ---

type GatewayGameMoveReq struct {
	AccountID    string
	X, Y, Z, Yaw int32
}

func (p GatewayGameMoveReq) Encode() []byte {
	w := NewWriter()
	w.String(p.AccountID)
	w.Int32(p.X)
	w.Int32(p.Y)
	w.Int32(p.Z)
	w.Int32(p.Yaw)
	return w.Bytes()
}

func DecodeGatewayGameMoveReq(payload []byte) (GatewayGameMoveReq, error) {
	r := NewReader(payload)
	var p GatewayGameMoveReq
	var err error
	if p.AccountID, err = r.String(); err != nil {
		return p, err
	}
	if p.X, err = r.Int32(); err != nil {
		return p, err
	}
	if p.Y, err = r.Int32(); err != nil {
		return p, err
	}
	if p.Z, err = r.Int32(); err != nil {
		return p, err
	}
	if p.Yaw, err = r.Int32(); err != nil {
		return p, err
	}
	return p, nil
}

type GatewayGameLeaveReq struct {
	AccountID string
}

func (p GatewayGameLeaveReq) Encode() []byte {
	w := NewWriter()
	w.String(p.AccountID)
	return w.Bytes()
}

func DecodeGatewayGameLeaveReq(payload []byte) (GatewayGameLeaveReq, error) {
	r := NewReader(payload)
	id, err := r.String()
	if err != nil {
		return GatewayGameLeaveReq{}, err
	}
	return GatewayGameLeaveReq{AccountID: id}, nil
}

type GatewayGameAttackReq struct {
	AccountID string
	TargetUID uint32
}

func (p GatewayGameAttackReq) Encode() []byte {
	w := NewWriter()
	w.String(p.AccountID)
	w.Uint32(p.TargetUID)
	return w.Bytes()
}

func DecodeGatewayGameAttackReq(payload []byte) (GatewayGameAttackReq, error) {
	r := NewReader(payload)
	var p GatewayGameAttackReq
	var err error
	if p.AccountID, err = r.String(); err != nil {
		return p, err
	}
	if p.TargetUID, err = r.Uint32(); err != nil {
		return p, err
	}
	return p, nil
}

type GameGatewayMoveRes struct {
	AccountID        string
	X, Y, Z, Yaw     int32
	TargetAccountIDs []string
}

func (p GameGatewayMoveRes) Encode() []byte {
	w := NewWriter()
	w.String(p.AccountID)
	w.Int32(p.X)
	w.Int32(p.Y)
	w.Int32(p.Z)
	w.Int32(p.Yaw)
	w.StringSlice(p.TargetAccountIDs)
	return w.Bytes()
}

func DecodeGameGatewayMoveRes(payload []byte) (GameGatewayMoveRes, error) {
	r := NewReader(payload)
	var p GameGatewayMoveRes
	var err error
	if p.AccountID, err = r.String(); err != nil {
		return p, err
	}
	if p.X, err = r.Int32(); err != nil {
		return p, err
	}
	if p.Y, err = r.Int32(); err != nil {
		return p, err
	}
	if p.Z, err = r.Int32(); err != nil {
		return p, err
	}
	if p.Yaw, err = r.Int32(); err != nil {
		return p, err
	}
	if p.TargetAccountIDs, err = r.StringSlice(); err != nil {
		return p, err
	}
	return p, nil
}

type GameGatewayAttackRes struct {
	AttackerUID      uint32
	TargetUID        uint32
	TargetAccountID  string
	Damage           int32
	TargetRemainHP   int32
	TargetAccountIDs []string
}

func (p GameGatewayAttackRes) Encode() []byte {
	w := NewWriter()
	w.Uint32(p.AttackerUID)
	w.Uint32(p.TargetUID)
	w.String(p.TargetAccountID)
	w.Int32(p.Damage)
	w.Int32(p.TargetRemainHP)
	w.StringSlice(p.TargetAccountIDs)
	return w.Bytes()
}

func DecodeGameGatewayAttackRes(payload []byte) (GameGatewayAttackRes, error) {
	r := NewReader(payload)
	var p GameGatewayAttackRes
	var err error
	if p.AttackerUID, err = r.Uint32(); err != nil {
		return p, err
	}
	if p.TargetUID, err = r.Uint32(); err != nil {
		return p, err
	}
	if p.TargetAccountID, err = r.String(); err != nil {
		return p, err
	}
	if p.Damage, err = r.Int32(); err != nil {
		return p, err
	}
	if p.TargetRemainHP, err = r.Int32(); err != nil {
		return p, err
	}
	if p.TargetAccountIDs, err = r.StringSlice(); err != nil {
		return p, err
	}
	return p, nil
}
