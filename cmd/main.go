package main

import "github.com/adanyl0v/scrum-ai-master/internal/app"

func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	app.MustOpenStorage()
	defer app.CloseStorage()

	app.MustInitBoard()
	app.StartBackground()
	defer app.StopBackground()

	app.MustListenAndServeHTTP()
}
