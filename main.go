package main

import "github.com/nibrahim/dsstorekit/cmd"

func main() {
	cmd.Execute()
}
