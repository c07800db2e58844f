package main

import "rent4u_backend/internal/app"

func main() {
	app.Run()
}
