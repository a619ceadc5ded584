package arr

// Image is an artwork reference on an *arr resource
type Image struct {
	CoverType string `json:"coverType"`
	RemoteURL string `json:"remoteUrl"`
	URL       string `json:"url"`
}

// RatingValue is a single rating source
type RatingValue struct {
	Value float64 `json:"value"`
	Votes int     `json:"votes"`
}

// MovieRatings holds the per-source ratings of a Radarr movie
type MovieRatings struct {
	Tmdb *RatingValue `json:"tmdb"`
	Imdb *RatingValue `json:"imdb"`
}

// QualityName is the nested quality descriptor of a file
type QualityName struct {
	Quality struct {
		Name string `json:"name"`
	} `json:"quality"`
}

// MovieFile is the file record attached to a Radarr movie
type MovieFile struct {
	Quality *QualityName `json:"quality"`
}

// MovieResource is a Radarr /api/v3/movie record
type MovieResource struct {
	ID         *int64        `json:"id"`
	Title      string        `json:"title"`
	Year       int           `json:"year"`
	HasFile    bool          `json:"hasFile"`
	Monitored  bool          `json:"monitored"`
	Images     []Image       `json:"images"`
	Ratings    *MovieRatings `json:"ratings"`
	Added      string        `json:"added"`
	MovieFile  *MovieFile    `json:"movieFile"`
	SizeOnDisk int64         `json:"sizeOnDisk"`
	Overview   string        `json:"overview"`
	Genres     []string      `json:"genres"`
}

// SeriesStatistics is the statistics block of a Sonarr series
type SeriesStatistics struct {
	PercentOfEpisodes float64 `json:"percentOfEpisodes"`
	SizeOnDisk        int64   `json:"sizeOnDisk"`
}

// SeriesResource is a Sonarr /api/v3/series record
type SeriesResource struct {
	ID          *int64            `json:"id"`
	Title       string            `json:"title"`
	Year        int               `json:"year"`
	Images      []Image           `json:"images"`
	Ratings     *RatingValue      `json:"ratings"`
	Statistics  *SeriesStatistics `json:"statistics"`
	SeasonCount int               `json:"seasonCount"`
	Network     string            `json:"network"`
	Overview    string            `json:"overview"`
	Added       string            `json:"added"`
	Genres      []string          `json:"genres"`
}

// AlbumStatistics is the statistics block of a Lidarr album
type AlbumStatistics struct {
	PercentOfTracks float64 `json:"percentOfTracks"`
	SizeOnDisk      int64   `json:"sizeOnDisk"`
}

// ArtistRef is the artist embedded in a Lidarr album
type ArtistRef struct {
	ArtistName string `json:"artistName"`
}

// AlbumResource is a Lidarr /api/v1/album record
type AlbumResource struct {
	ID          *int64           `json:"id"`
	Title       string           `json:"title"`
	ReleaseDate string           `json:"releaseDate"`
	Monitored   bool             `json:"monitored"`
	Images      []Image          `json:"images"`
	Ratings     *RatingValue     `json:"ratings"`
	Statistics  *AlbumStatistics `json:"statistics"`
	Artist      *ArtistRef       `json:"artist"`
	Overview    string           `json:"overview"`
	Genres      []string         `json:"genres"`
}

// BookStatistics is the statistics block of a Readarr book
type BookStatistics struct {
	BookFileCount int   `json:"bookFileCount"`
	SizeOnDisk    int64 `json:"sizeOnDisk"`
}

// AuthorRef is the author embedded in a Readarr book
type AuthorRef struct {
	AuthorName string `json:"authorName"`
}

// BookResource is a Readarr /api/v1/book record
type BookResource struct {
	ID          *int64          `json:"id"`
	Title       string          `json:"title"`
	ReleaseDate string          `json:"releaseDate"`
	Monitored   bool            `json:"monitored"`
	Images      []Image         `json:"images"`
	Ratings     *RatingValue    `json:"ratings"`
	Statistics  *BookStatistics `json:"statistics"`
	Author      *AuthorRef      `json:"author"`
	Overview    string          `json:"overview"`
	Genres      []string        `json:"genres"`
}

// QueueRecord is one entry of an *arr /queue page
type QueueRecord struct {
	ID       *int64  `json:"id"`
	Title    string  `json:"title"`
	Protocol string  `json:"protocol"`
	Timeleft string  `json:"timeleft"`
	Size     float64 `json:"size"`
	Sizeleft float64 `json:"sizeleft"`
	Status   string  `json:"status"`
}

// QueuePage is the paged wrapper of an *arr /queue response
type QueuePage struct {
	Page         int           `json:"page"`
	TotalRecords int           `json:"totalRecords"`
	Records      []QueueRecord `json:"records"`
}

// DiskSpaceResource is one *arr /diskspace entry, sizes in bytes
type DiskSpaceResource struct {
	Path       string  `json:"path"`
	Label      string  `json:"label"`
	FreeSpace  float64 `json:"freeSpace"`
	TotalSpace float64 `json:"totalSpace"`
}

// SystemStatus is the subset of /system/status used for health records
type SystemStatus struct {
	AppName string `json:"appName"`
	Version string `json:"version"`
}
