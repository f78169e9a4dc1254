package main

import "github.com/biointellect/hospital_backend/cmd"

func main() {
	cmd.Execute()
}
