// Package handler binds console commands to the quiz, joke and records engines.
package handler

import (
	"strconv"

	"github.com/pavelanni/portfolio/internal/console"
	"github.com/pavelanni/portfolio/internal/i18n"
)

// App is a program that registers its commands on a console.
type App interface {
	Routes(c *console.Console)
	Start()
}

// Mount registers app on c and prints its opening screen.
func Mount(c *console.Console, app App) {
	app.Routes(c)
	app.Start()
}

type base struct {
	c   *console.Console
	loc *i18n.Localizer
}

func newBase(c *console.Console) base {
	return base{c: c, loc: c.Localizer()}
}

func (b base) say(msgID string) {
	b.c.Println(b.loc.T(msgID))
}

func (b base) sayd(msgID string, data map[string]any) {
	b.c.Println(b.loc.Td(msgID, data))
}

func (b base) sayp(msgID string, count int) {
	b.c.Println(b.loc.Tp(msgID, count))
}

func formatPercent(p float64, prec int) string {
	return strconv.FormatFloat(p, 'f', prec, 64)
}
