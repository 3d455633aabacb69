package pipeline

import (
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// decodeReader 将上传的CSV字节流转成UTF-8：去掉BOM，
// 非UTF-8内容按Windows-1252回退解码（Excel导出的常见编码）
func decodeReader(data []byte) io.Reader {
	if !utf8.Valid(data) {
		return transform.NewReader(bytes.NewReader(data), charmap.Windows1252.NewDecoder())
	}
	decoder := unicode.UTF8BOM.NewDecoder()
	return transform.NewReader(bytes.NewReader(data), decoder)
}
