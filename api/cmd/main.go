package main

import (
	api "ScreenWatch/api"
)

func main() {
	api.Run()
}
