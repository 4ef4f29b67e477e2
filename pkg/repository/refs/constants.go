package refs

// The well-known reference roots.
const (
	// RefHeads anchors branch refs.
	RefHeads RefPath = "refs/heads"

	// RefTags anchors tag refs.
	RefTags RefPath = "refs/tags"

	// RefRemotes anchors remote-tracking refs.
	RefRemotes RefPath = "refs/remotes"

	// RefHEAD is the HEAD pointer itself.
	RefHEAD RefPath = "HEAD"
)
