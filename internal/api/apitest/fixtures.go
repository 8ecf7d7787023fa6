package apitest

import "github.com/rebeliceyang/lazymarv/internal/models"

// DefaultFilesets returns a small bag collection used by tests and serve-fixture
func DefaultFilesets() []*Fileset {
	return []*Fileset{
		{
			ID: 1, Name: "run_2015-10-01.bag", MD5: "a1b2c3", Dirpath: "/data/bags/2015", Type: "bag",
			Size: 3 << 30, EndTime: 1443657600000, Tags: []string{"outdoor", "calibrated"},
			Files: []models.File{
				{ID: "11", Name: "run_2015-10-01.bag", MD5: "a1b2c3", Size: 3 << 30},
			},
		},
		{
			ID: 2, Name: "run_2015-10-02.bag", MD5: "d4e5f6", Dirpath: "/data/bags/2015", Type: "bag",
			Size: 512 << 20, EndTime: 1443744000000, Tags: []string{"outdoor"},
			Comments: []models.Comment{{Author: models.Author{Username: "ops"}, Text: "gps drop at 12:03", Timestamp: 1443744100000}},
			Files: []models.File{
				{ID: "21", Name: "run_2015-10-02_0.bag", MD5: "d4e5f6", Size: 256 << 20},
				{ID: "22", Name: "run_2015-10-02_1.bag", MD5: "d4e5f7", Size: 256 << 20},
			},
		},
		{
			ID: 3, Name: "lab_2015-10-05.bag", MD5: "0a0b0c", Dirpath: "/data/bags/lab", Type: "bag",
			Size: 40 << 20, EndTime: 1444003200000, Tags: []string{"indoor", "calibrated"},
			Files: []models.File{
				{ID: "31", Name: "lab_2015-10-05.bag", MD5: "0a0b0c", Size: 40 << 20},
				{ID: "32", Name: "lab_2015-10-05.yaml", MD5: "0a0b0d", Size: 2 << 10},
			},
		},
	}
}
