package game

// PersistRoundState stores round snapshots between verb calls so an
// in-flight hand survives a restart.
type PersistRoundState interface {
	Load(handID string) (*RoundSnapshot, error)
	Save(handID string, state *RoundSnapshot) error
	Remove(handID string) error
}
