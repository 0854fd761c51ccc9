package sharing

import "errors"

var (
	ErrInvalidParameters  = errors.New("sharing: invalid share count or threshold")
	ErrInsufficientShares = errors.New("sharing: not enough shares to reconstruct")
	ErrDuplicateIndex     = errors.New("sharing: duplicate share index")
	ErrInconsistentShares = errors.New("sharing: share subsets disagree on the secret")
)
