package app

import (
	"bitbucket.org/kleinnic74/photomap/consts"
)

// announcedProperties are published in the TXT record of the mDNS service
func announcedProperties(albumName string) map[string]string {
	return map[string]string{
		"album": albumName,
		"gc":    consts.GitCommit,
		"gr":    consts.GitRepo,
		"api":   "1",
	}
}
