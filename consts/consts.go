package consts

import "time"

const (
	UA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36"

	TUBI_URL          = "https://tubitv.com"
	CATALOG_URL       = TUBI_URL + "/live"
	SCHEDULE_URL      = TUBI_URL + "/oz/epg/programming"
	PROXY_DIRECTORY   = "https://api.proxyscrape.com/v2/"
	GUIDE_BASE_URL    = "https://github.com/dtankdempse/tubi-m3u/raw/refs/heads/main"
	DATA_MARKER       = "window.__data"
	DEFAULT_COUNTRY   = "US"
	DEFAULT_PROTOCOL  = "socks4"
	GROUP_OTHER       = "Other"
	UNKNOWN_CHANNEL   = "Unknown Channel"
	UNKNOWN_TITLE     = "Unknown Title"
	ISO_TIME_FORMAT   = "2006-01-02T15:04:05Z"
	TIME_FORMAT       = "20060102150405 -0700"
	MAX_RETRIES       = 10
	BATCH_SIZE        = 150
	REQUEST_TIMEOUT   = 10 * time.Second
	PLAYLIST_FILENAME = "tubi_playlist_%s.m3u"
	EPG_FILENAME      = "tubi_epg_%s.xml"
)
