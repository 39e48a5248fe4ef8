package main

import "market-quick-price/cmd"

func main() {
	cmd.Execute()
}
