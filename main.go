/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/folioworks/portfolio/cmd"

func main() {
	cmd.Execute()
}
