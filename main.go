package main

import (
	_ "time/tzdata"

	"github.com/yeremiapane/restaurant-reservation/cmd"
)

func main() {
	cmd.Execute()
}
