package main

import (
	_ "github.com/joho/godotenv/autoload"
)

// @title Estimate Intake API
// @version 1.0
// @BasePath /
func main() {
	Execute()
}
