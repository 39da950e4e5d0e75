package main

import "github.com/budgetoffice/staff-portal/cmd"

func main() {
	cmd.Execute()
}
