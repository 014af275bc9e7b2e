package consts

import "strings"

// devmode is set at link time: -ldflags "-X bitbucket.org/kleinnic74/photomap/consts.devmode=true"
var devmode string = "false"

func IsDevMode() bool {
	return strings.ToLower(devmode) == "true"
}
