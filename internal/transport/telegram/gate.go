package telegram

// Gate admits exactly one authorized identity. It only answers the
// question; notifying the denied party and the operator is the caller's
// job, so denial stays visible instead of silently dropped.
type Gate struct {
	ownerID int64
}

func NewGate(ownerID int64) *Gate {
	return &Gate{ownerID: ownerID}
}

func (g *Gate) Allowed(userID int64) bool {
	return userID == g.ownerID
}
