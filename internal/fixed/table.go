package fixed

// sqrtTable holds sqrt(i) in 16.16 for i in [0, 256].
var sqrtTable = [257]Fixed{
	0x00000000, 0x00010000, 0x00016A0A, 0x0001BB68,
	0x00020000, 0x00023C6F, 0x00027312, 0x0002A550,
	0x0002D414, 0x00030000, 0x0003298B, 0x0003510E,
	0x000376CF, 0x00039B05, 0x0003BDDD, 0x0003DF7C,
	0x00040000, 0x00041F84, 0x00043E1E, 0x00045BE1,
	0x000478DE, 0x00049524, 0x0004B0BF, 0x0004CBBC,
	0x0004E624, 0x00050000, 0x00051959, 0x00053237,
	0x00054AA0, 0x0005629A, 0x00057A2B, 0x00059159,
	0x0005A828, 0x0005BE9C, 0x0005D4B9, 0x0005EA84,
	0x00060000, 0x00061530, 0x00062A17, 0x00063EB8,
	0x00065316, 0x00066733, 0x00067B12, 0x00068EB4,
	0x0006A21D, 0x0006B54D, 0x0006C847, 0x0006DB0C,
	0x0006ED9F, 0x00070000, 0x00071232, 0x00072435,
	0x0007360B, 0x000747B5, 0x00075935, 0x00076A8C,
	0x00077BBB, 0x00078CC2, 0x00079DA3, 0x0007AE60,
	0x0007BEF8, 0x0007CF6D, 0x0007DFBF, 0x0007EFF0,
	0x00080000, 0x00080FF0, 0x00081FC1, 0x00082F73,
	0x00083F08, 0x00084E7F, 0x00085DDA, 0x00086D18,
	0x00087C3B, 0x00088B44, 0x00089A32, 0x0008A906,
	0x0008B7C2, 0x0008C664, 0x0008D4EE, 0x0008E361,
	0x0008F1BC, 0x00090000, 0x00090E2E, 0x00091C45,
	0x00092A47, 0x00093834, 0x0009460C, 0x000953CF,
	0x0009617E, 0x00096F19, 0x00097CA1, 0x00098A16,
	0x00099777, 0x0009A4C6, 0x0009B203, 0x0009BF2E,
	0x0009CC47, 0x0009D94F, 0x0009E645, 0x0009F32B,
	0x000A0000, 0x000A0CC5, 0x000A1979, 0x000A261E,
	0x000A32B3, 0x000A3F38, 0x000A4BAE, 0x000A5816,
	0x000A646E, 0x000A70B8, 0x000A7CF3, 0x000A8921,
	0x000A9540, 0x000AA151, 0x000AAD55, 0x000AB94B,
	0x000AC534, 0x000AD110, 0x000ADCDF, 0x000AE8A1,
	0x000AF457, 0x000B0000, 0x000B0B9D, 0x000B172D,
	0x000B22B2, 0x000B2E2B, 0x000B3998, 0x000B44F9,
	0x000B504F, 0x000B5B9A, 0x000B66D9, 0x000B720E,
	0x000B7D37, 0x000B8856, 0x000B936A, 0x000B9E74,
	0x000BA973, 0x000BB467, 0x000BBF52, 0x000BCA32,
	0x000BD508, 0x000BDFD5, 0x000BEA98, 0x000BF551,
	0x000C0000, 0x000C0AA6, 0x000C1543, 0x000C1FD6,
	0x000C2A60, 0x000C34E1, 0x000C3F59, 0x000C49C8,
	0x000C542E, 0x000C5E8C, 0x000C68E0, 0x000C732D,
	0x000C7D70, 0x000C87AC, 0x000C91DF, 0x000C9C0A,
	0x000CA62C, 0x000CB047, 0x000CBA59, 0x000CC464,
	0x000CCE66, 0x000CD861, 0x000CE254, 0x000CEC40,
	0x000CF624, 0x000D0000, 0x000D09D5, 0x000D13A2,
	0x000D1D69, 0x000D2727, 0x000D30DF, 0x000D3A90,
	0x000D4439, 0x000D4DDC, 0x000D5777, 0x000D610C,
	0x000D6A9A, 0x000D7421, 0x000D7DA1, 0x000D871B,
	0x000D908E, 0x000D99FA, 0x000DA360, 0x000DACBF,
	0x000DB618, 0x000DBF6B, 0x000DC8B7, 0x000DD1FE,
	0x000DDB3D, 0x000DE477, 0x000DEDAB, 0x000DF6D8,
	0x000E0000, 0x000E0922, 0x000E123D, 0x000E1B53,
	0x000E2463, 0x000E2D6D, 0x000E3672, 0x000E3F70,
	0x000E4869, 0x000E515D, 0x000E5A4B, 0x000E6333,
	0x000E6C16, 0x000E74F3, 0x000E7DCB, 0x000E869D,
	0x000E8F6B, 0x000E9832, 0x000EA0F5, 0x000EA9B2,
	0x000EB26B, 0x000EBB1E, 0x000EC3CB, 0x000ECC74,
	0x000ED518, 0x000EDDB7, 0x000EE650, 0x000EEEE5,
	0x000EF775, 0x000F0000, 0x000F0886, 0x000F1107,
	0x000F1984, 0x000F21FC, 0x000F2A6F, 0x000F32DD,
	0x000F3B47, 0x000F43AC, 0x000F4C0C, 0x000F5468,
	0x000F5CBF, 0x000F6512, 0x000F6D60, 0x000F75AA,
	0x000F7DEF, 0x000F8630, 0x000F8E6D, 0x000F96A5,
	0x000F9ED9, 0x000FA709, 0x000FAF34, 0x000FB75B,
	0x000FBF7E, 0x000FC79D, 0x000FCFB7, 0x000FD7CE,
	0x000FDFE0, 0x000FE7EE, 0x000FEFF8, 0x000FF7FE,
	0x00100000,
}
