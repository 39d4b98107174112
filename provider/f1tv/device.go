package f1tv

import (
	"fmt"
	"strings"

	"github.com/trimmer-cli/trimmer/constant"
)

// Device is a client profile F1TV serves different streams to.
type Device struct {
	Name string
	// Path is the device segment of the content endpoints.
	Path       string
	DeviceInfo string
	UserAgent  string
}

var devices = map[string]Device{
	"web": {
		Name:       "web",
		Path:       "WEB_DASH",
		DeviceInfo: "device=web;screen=browser;os=windows;browser=chrome;browserVersion=137.0.0.0;osVersion=10;appVersion=release-R33.0.0;playerVersion=8.169.0",
		UserAgent:  constant.UserAgent,
	},
	"android": {
		Name:       "android",
		Path:       "ANDROID",
		DeviceInfo: "device=android;screen=phone;os=android;model=Pixel 7;osVersion=14;appVersion=3.0.1;playerVersion=3.35.0",
		UserAgent:  "RaceControl/3.0.1 (Linux;Android 14) ExoPlayerLib/2.19.1",
	},
	"tvos": {
		Name:       "tvos",
		Path:       "BIG_SCREEN_HLS",
		DeviceInfo: "device=tvos;screen=bigscreen;os=tvos;model=AppleTV11,1;osVersion=17.0;appVersion=2.26.0;playerVersion=3.30.0",
		UserAgent:  "RaceControl/2.26.0 (com.formula1.F1TV; tvOS 17.0) AVPlayer",
	},
}

// SelectDevice picks the profile for a quality and range request.
// A non-empty forced name wins over both.
func SelectDevice(forced string, quality int, dynamicRange string) (Device, error) {
	if forced != "" {
		device, ok := devices[strings.ToLower(forced)]
		if !ok {
			return Device{}, fmt.Errorf("unknown f1tv device %q", forced)
		}
		return device, nil
	}

	switch {
	case quality > 1080:
		// UHD is only served to set-top boxes, as H265 HDR
		return devices["tvos"], nil
	case strings.EqualFold(dynamicRange, "HDR10"):
		return devices["android"], nil
	default:
		return devices["web"], nil
	}
}
