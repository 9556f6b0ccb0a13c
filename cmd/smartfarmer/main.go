package main

import "github.com/DelXN-shivam/SmartFarmer-Admin-sub000/cmd/smartfarmer/cmd"

func main() {
	cmd.Execute()
}
