package atproto

// schema: com.atproto.repo.strongRef

// RepoStrongRef is a "main" in the com.atproto.repo.strongRef schema.
type RepoStrongRef struct {
	LexiconTypeID string `json:"$type,omitempty"`
	Cid           string `json:"cid"`
	Uri           string `json:"uri"`
}
