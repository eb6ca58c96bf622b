package commerce

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

func parseUUIDKey(id string) (uuid.UUID, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid uuid %q", ErrInvalidArgument, id)
	}
	return u, nil
}

func parseSerialKey(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid numeric id %q", ErrInvalidArgument, id)
	}
	return n, nil
}
