// Package util holds the flag, environment and transport helpers shared by the commands.
package util
