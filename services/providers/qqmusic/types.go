package qqmusic

// searchPayload is the request body for the desktop search endpoint
type searchPayload struct {
	Req1 searchRequest `json:"req_1"`
}

type searchRequest struct {
	Method string      `json:"method"`
	Module string      `json:"module"`
	Param  searchParam `json:"param"`
}

type searchParam struct {
	NumPerPage int    `json:"num_per_page"`
	PageNum    int    `json:"page_num"`
	Query      string `json:"query"`
	SearchType int    `json:"search_type"`
}

// SearchResponse represents the response from the QQ Music search API
type SearchResponse struct {
	Code int `json:"code"`
	Req1 struct {
		Code int `json:"code"`
		Data struct {
			Body struct {
				Song struct {
					List []Song `json:"list"`
				} `json:"song"`
			} `json:"body"`
		} `json:"data"`
	} `json:"req_1"`
}

// Song is a song hit from the search results
type Song struct {
	Mid    string `json:"mid"`
	Name   string `json:"name"`
	Singer []struct {
		Name string `json:"name"`
	} `json:"singer"`
	Interval int `json:"interval"` // Duration in seconds
}

// LyricResponse represents the response from the QQ Music lyric API
type LyricResponse struct {
	Retcode int    `json:"retcode"`
	Lyric   string `json:"lyric"`
	Trans   string `json:"trans"`
}
