// Package id issues human readable identifiers of the form PREFIX-<unix ms>-<9 chars>.
package id

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const suffixLen = 9

type Generator struct {
	prefix string
	now    func() time.Time
}

func NewGenerator(prefix string) *Generator {
	return &Generator{prefix: prefix, now: time.Now}
}

// NewID returns a new identifier. The suffix comes from a random UUID in upper-case base36.
func (g *Generator) NewID() string {
	return g.prefix + "-" + strconv.FormatInt(g.now().UnixMilli(), 10) + "-" + randomSuffix()
}

func randomSuffix() string {
	u := uuid.New()
	var sb strings.Builder
	for _, b := range u[:suffixLen] {
		sb.WriteByte(alphabet[int(b)%len(alphabet)])
	}
	return sb.String()
}

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
