package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLikeContains_EscapaComodines(t *testing.T) {
	assert.Equal(t, "%wid%", likeContains("wid"))
	assert.Equal(t, `%100\%%`, likeContains("100%"))
	assert.Equal(t, `%a\_b%`, likeContains("a_b"))
	assert.Equal(t, `%c:\\tmp%`, likeContains(`c:\tmp`))
}

func TestPgx5URL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h:5432/db?sslmode=disable", pgx5URL("postgres://u:p@h:5432/db?sslmode=disable"))
	assert.Equal(t, "pgx5://u@h/db", pgx5URL("postgresql://u@h/db"))
	assert.Equal(t, "pgx5://h/db", pgx5URL("pgx5://h/db"))
}
