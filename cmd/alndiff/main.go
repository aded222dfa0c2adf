// cmd/alndiff/main.go
package main

import (
	"alndiff/internal/app"
	"alndiff/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
