package main

import "yashubustudio/symptomcheck/internal/cli"

func main() {
	cli.Execute()
}
