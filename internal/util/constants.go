package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 身份证件上传相关常量
const (
	MimeImage      = "image/"
	MimePDF        = "application/pdf"
	MaxIDCardBytes = 5 << 20
	IDCardDir      = "id-cards"
)

var AllowedIDCardTypes = []string{MimeImage, MimePDF}
