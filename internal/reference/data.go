package reference

// Brand categories: HotCategory first, then initial letters.
const HotCategory = "HOT"

var brands = []Brand{
	{Value: "BYD", Label: "比亚迪 (BYD)", Category: "HOT"},
	{Value: "Tesla", Label: "特斯拉 (Tesla)", Category: "HOT"},
	{Value: "Toyota", Label: "丰田 (Toyota)", Category: "HOT"},
	{Value: "Volkswagen", Label: "大众 (Volkswagen)", Category: "HOT"},
	{Value: "Geely", Label: "吉利 (Geely)", Category: "HOT"},
	{Value: "Chery", Label: "奇瑞 (Chery)", Category: "HOT"},
	{Value: "LiAuto", Label: "理想 (Li Auto)", Category: "HOT"},
	{Value: "Zeekr", Label: "极氪 (Zeekr)", Category: "HOT"},
	{Value: "Aito", Label: "问界 (AITO)", Category: "HOT"},
	{Value: "Xiaomi", Label: "小米 (Xiaomi)", Category: "HOT"},
	{Value: "Wuling", Label: "五菱 (Wuling)", Category: "HOT"},
	{Value: "Audi", Label: "奥迪 (Audi)", Category: "A"},
	{Value: "Avatr", Label: "阿维塔 (Avatr)", Category: "A"},
	{Value: "Arcfox", Label: "极狐 (Arcfox)", Category: "A"},
	{Value: "Acura", Label: "讴歌 (Acura)", Category: "A"},
	{Value: "AlfaRomeo", Label: "阿尔法·罗密欧 (Alfa Romeo)", Category: "A"},
	{Value: "AstonMartin", Label: "阿斯顿·马丁 (Aston Martin)", Category: "A"},
	{Value: "BMW", Label: "宝马 (BMW)", Category: "B"},
	{Value: "Benz", Label: "奔驰 (Mercedes-Benz)", Category: "B"},
	{Value: "Buick", Label: "别克 (Buick)", Category: "B"},
	{Value: "Baojun", Label: "宝骏 (Baojun)", Category: "B"},
	{Value: "Bentley", Label: "宾利 (Bentley)", Category: "B"},
	{Value: "Bestune", Label: "奔腾 (Bestune)", Category: "B"},
	{Value: "Beijing", Label: "北京 (Beijing)", Category: "B"},
	{Value: "Baic", Label: "北汽 (BAIC)", Category: "B"},
	{Value: "Borgward", Label: "宝沃 (Borgward)", Category: "B"},
	{Value: "Changan", Label: "长安 (Changan)", Category: "C"},
	{Value: "Chevrolet", Label: "雪佛兰 (Chevrolet)", Category: "C"},
	{Value: "Cadillac", Label: "凯迪拉克 (Cadillac)", Category: "C"},
	{Value: "Citroen", Label: "雪铁龙 (Citroen)", Category: "C"},
	{Value: "ChanganOshan", Label: "长安欧尚 (Oshan)", Category: "C"},
	{Value: "Dongfeng", Label: "东风 (Dongfeng)", Category: "D"},
	{Value: "Denza", Label: "腾势 (Denza)", Category: "D"},
	{Value: "Deepal", Label: "深蓝 (Deepal)", Category: "D"},
	{Value: "Dodge", Label: "道奇 (Dodge)", Category: "D"},
	{Value: "Ds", Label: "DS", Category: "D"},
	{Value: "Ford", Label: "福特 (Ford)", Category: "F"},
	{Value: "Foton", Label: "福田 (Foton)", Category: "F"},
	{Value: "Ferrari", Label: "法拉利 (Ferrari)", Category: "F"},
	{Value: "Fiat", Label: "菲亚特 (Fiat)", Category: "F"},
	{Value: "Faw", Label: "一汽 (FAW)", Category: "F"},
	{Value: "GAC", Label: "广汽 (GAC)", Category: "G"},
	{Value: "GreatWall", Label: "长城 (Great Wall)", Category: "G"},
	{Value: "Genesis", Label: "捷尼赛思 (Genesis)", Category: "G"},
	{Value: "Geely", Label: "吉利 (Geely)", Category: "G"},
	{Value: "Gmc", Label: "GMC", Category: "G"},
	{Value: "Gonzo", Label: "广汽传祺 (Trumpchi)", Category: "G"},
	{Value: "Honda", Label: "本田 (Honda)", Category: "H"},
	{Value: "Hongqi", Label: "红旗 (Hongqi)", Category: "H"},
	{Value: "Hyundai", Label: "现代 (Hyundai)", Category: "H"},
	{Value: "Haval", Label: "哈弗 (Haval)", Category: "H"},
	{Value: "HiPhi", Label: "高合 (HiPhi)", Category: "H"},
	{Value: "Hozon", Label: "哪吒 (Neta)", Category: "H"},
	{Value: "Haima", Label: "海马 (Haima)", Category: "H"},
	{Value: "Jetour", Label: "捷途 (Jetour)", Category: "J"},
	{Value: "Jeep", Label: "吉普 (Jeep)", Category: "J"},
	{Value: "Jac", Label: "江淮 (JAC)", Category: "J"},
	{Value: "Jmc", Label: "江铃 (JMC)", Category: "J"},
	{Value: "Jetta", Label: "捷达 (Jetta)", Category: "J"},
	{Value: "Jaguar", Label: "捷豹 (Jaguar)", Category: "J"},
	{Value: "Kia", Label: "起亚 (Kia)", Category: "K"},
	{Value: "Koenigsegg", Label: "科尼赛克 (Koenigsegg)", Category: "K"},
	{Value: "Leapmotor", Label: "零跑 (Leapmotor)", Category: "L"},
	{Value: "LynkCo", Label: "领克 (Lynk & Co)", Category: "L"},
	{Value: "Lexus", Label: "雷克萨斯 (Lexus)", Category: "L"},
	{Value: "LandRover", Label: "路虎 (Land Rover)", Category: "L"},
	{Value: "Lotus", Label: "路特斯 (Lotus)", Category: "L"},
	{Value: "Lamborghini", Label: "兰博基尼 (Lamborghini)", Category: "L"},
	{Value: "Lincoln", Label: "林肯 (Lincoln)", Category: "L"},
	{Value: "Lixiang", Label: "理想 (Li Auto)", Category: "L"},
	{Value: "Lifan", Label: "力帆 (Lifan)", Category: "L"},
	{Value: "Mazda", Label: "马自达 (Mazda)", Category: "M"},
	{Value: "MG", Label: "名爵 (MG)", Category: "M"},
	{Value: "Maserati", Label: "玛莎拉蒂 (Maserati)", Category: "M"},
	{Value: "McLaren", Label: "迈凯伦 (McLaren)", Category: "M"},
	{Value: "Mini", Label: "MINI", Category: "M"},
	{Value: "Mitsubishi", Label: "三菱 (Mitsubishi)", Category: "M"},
	{Value: "NIO", Label: "蔚来 (NIO)", Category: "N"},
	{Value: "Nissan", Label: "日产 (Nissan)", Category: "N"},
	{Value: "Neta", Label: "哪吒 (Neta)", Category: "N"},
	{Value: "Ora", Label: "欧拉 (Ora)", Category: "O"},
	{Value: "Opel", Label: "欧宝 (Opel)", Category: "O"},
	{Value: "Porsche", Label: "保时捷 (Porsche)", Category: "P"},
	{Value: "Peugeot", Label: "标致 (Peugeot)", Category: "P"},
	{Value: "Polestar", Label: "极星 (Polestar)", Category: "P"},
	{Value: "Qoros", Label: "观致 (Qoros)", Category: "Q"},
	{Value: "Roewe", Label: "荣威 (Roewe)", Category: "R"},
	{Value: "RollsRoyce", Label: "劳斯莱斯 (Rolls-Royce)", Category: "R"},
	{Value: "Renault", Label: "雷诺 (Renault)", Category: "R"},
	{Value: "Radar", Label: "雷达 (Radar)", Category: "R"},
	{Value: "SAIC", Label: "上汽 (SAIC)", Category: "S"},
	{Value: "Skoda", Label: "斯柯达 (Skoda)", Category: "S"},
	{Value: "Subaru", Label: "斯巴鲁 (Subaru)", Category: "S"},
	{Value: "Suzuki", Label: "铃木 (Suzuki)", Category: "S"},
	{Value: "Smart", Label: "smart", Category: "S"},
	{Value: "Seres", Label: "赛力斯 (Seres)", Category: "S"},
	{Value: "Swm", Label: "斯威 (SWM)", Category: "S"},
	{Value: "Soueast", Label: "东南 (Soueast)", Category: "S"},
	{Value: "Tank", Label: "坦克 (Tank)", Category: "T"},
	{Value: "Tesla", Label: "特斯拉 (Tesla)", Category: "T"},
	{Value: "Volvo", Label: "沃尔沃 (Volvo)", Category: "V"},
	{Value: "Voyah", Label: "岚图 (Voyah)", Category: "V"},
	{Value: "Volkswagen", Label: "大众 (Volkswagen)", Category: "V"},
	{Value: "Wuling", Label: "五菱 (Wuling)", Category: "W"},
	{Value: "Wey", Label: "魏牌 (WEY)", Category: "W"},
	{Value: "Weltmeister", Label: "威马 (Weltmeister)", Category: "W"},
	{Value: "Xiaomi", Label: "小米 (Xiaomi)", Category: "X"},
	{Value: "Xpeng", Label: "小鹏 (Xpeng)", Category: "X"},
	{Value: "Yudo", Label: "云度 (Yudo)", Category: "Y"},
	{Value: "Yangwang", Label: "仰望 (Yangwang)", Category: "Y"},
	{Value: "Zeekr", Label: "极氪 (Zeekr)", Category: "Z"},
	{Value: "Zhidou", Label: "知豆 (Zhidou)", Category: "Z"},
	{Value: "Zotye", Label: "众泰 (Zotye)", Category: "Z"},
}

var currencies = []Currency{
	{Code: "USD", Name: "美元 (USD)", Symbol: "$"},
	{Code: "CNY", Name: "人民币 (CNY)", Symbol: "¥"},
	{Code: "RUB", Name: "俄罗斯卢布 (RUB)", Symbol: "₽"},
	{Code: "AED", Name: "阿联酋迪拉姆 (AED)", Symbol: "د.إ"},
	{Code: "EUR", Name: "欧元 (EUR)", Symbol: "€"},
	{Code: "KZT", Name: "哈萨克斯坦坚戈 (KZT)", Symbol: "₸"},
	{Code: "UZS", Name: "乌兹别克斯坦苏姆 (UZS)", Symbol: "лв"},
	{Code: "SAR", Name: "沙特里亚尔 (SAR)", Symbol: "﷼"},
	{Code: "EGP", Name: "埃及镑 (EGP)", Symbol: "£"},
	{Code: "ETB", Name: "埃塞俄比亚比尔 (ETB)", Symbol: "Br"},
}

var departurePorts = []Port{
	{Name: "上海港 (Shanghai - 海通/外高桥)", Group: "沿海主要枢纽港口 (Sea Ports)"},
	{Name: "天津港 (Tianjin - 新港/滚装码头)", Group: "沿海主要枢纽港口 (Sea Ports)"},
	{Name: "广州港 (Guangzhou - 南沙/新沙码头)", Group: "沿海主要枢纽港口 (Sea Ports)"},
	{Name: "深圳港 (Shenzhen - 蛇口/盐田/赤湾)", Group: "沿海主要枢纽港口 (Sea Ports)"},
	{Name: "连云港 (Lianyungang)", Group: "沿海主要枢纽港口 (Sea Ports)"},
	{Name: "宁波舟山港 (Ningbo-Zhoushan)", Group: "沿海主要枢纽港口 (Sea Ports)"},
	{Name: "青岛港 (Qingdao)", Group: "沿海主要枢纽港口 (Sea Ports)"},
	{Name: "厦门港 (Xiamen)", Group: "沿海主要枢纽港口 (Sea Ports)"},
	{Name: "大连港 (Dalian)", Group: "沿海主要枢纽港口 (Sea Ports)"},
	{Name: "钦州港 (Qinzhou)", Group: "沿海主要枢纽港口 (Sea Ports)"},
	{Name: "烟台港 (Yantai)", Group: "沿海主要枢纽港口 (Sea Ports)"},
	{Name: "太仓港 (Taicang)", Group: "沿海主要枢纽港口 (Sea Ports)"},
	{Name: "霍尔果斯 (Khorgos - 新疆/中亚陆运)", Group: "陆路出口口岸 (Land Ports)"},
	{Name: "阿拉山口 (Alashankou - 新疆/铁路)", Group: "陆路出口口岸 (Land Ports)"},
	{Name: "喀什 (Kashgar - 新疆/南亚/中亚)", Group: "陆路出口口岸 (Land Ports)"},
	{Name: "满洲里 (Manzhouli - 内蒙古/俄罗斯)", Group: "陆路出口口岸 (Land Ports)"},
	{Name: "二连浩特 (Erenhot - 内蒙古/蒙古)", Group: "陆路出口口岸 (Land Ports)"},
	{Name: "绥芬河 (Suifenhe - 黑龙江/俄远东)", Group: "陆路出口口岸 (Land Ports)"},
	{Name: "凭祥 (Pingxiang - 广西/东南亚)", Group: "陆路出口口岸 (Land Ports)"},
	{Name: "瑞丽 (Ruili - 云南/缅甸)", Group: "陆路出口口岸 (Land Ports)"},
}

var destinationPorts = []Port{
	{Name: "科纳克里港 (Conakry) - 几内亚", Group: "几内亚 (Guinea - 重点)"},
	{Name: "卡姆萨尔港 (Kamsar) - 几内亚", Group: "几内亚 (Guinea - 重点)"},
	{Name: "博凯 (Boke) - 几内亚", Group: "几内亚 (Guinea - 重点)"},
	{Name: "维多利亚 (Victoria) - 几内亚", Group: "几内亚 (Guinea - 重点)"},
	{Name: "拉各斯 (Apapa/Tin Can, Lagos) - 尼日利亚", Group: "西非地区 (West Africa)"},
	{Name: "阿比让 (Abidjan) - 科特迪瓦", Group: "西非地区 (West Africa)"},
	{Name: "达喀尔 (Dakar) - 塞内加尔", Group: "西非地区 (West Africa)"},
	{Name: "特马 (Tema) - 加纳", Group: "西非地区 (West Africa)"},
	{Name: "洛美 (Lome) - 多哥", Group: "西非地区 (West Africa)"},
	{Name: "科托努 (Cotonou) - 贝宁", Group: "西非地区 (West Africa)"},
	{Name: "杜阿拉 (Douala) - 喀麦隆", Group: "西非地区 (West Africa)"},
	{Name: "弗里敦 (Freetown) - 塞拉利昂", Group: "西非地区 (West Africa)"},
	{Name: "蒙罗维亚 (Monrovia) - 利比里亚", Group: "西非地区 (West Africa)"},
	{Name: "班珠尔 (Banjul) - 冈比亚", Group: "西非地区 (West Africa)"},
	{Name: "努瓦克肖特 (Nouakchott) - 毛里塔尼亚", Group: "西非地区 (West Africa)"},
	{Name: "亚历山大 (Alexandria) - 埃及", Group: "北非地区 (North Africa)"},
	{Name: "塞得港 (Port Said) - 埃及", Group: "北非地区 (North Africa)"},
	{Name: "苏科纳 (Sokhna) - 埃及", Group: "北非地区 (North Africa)"},
	{Name: "达米埃塔 (Damietta) - 埃及", Group: "北非地区 (North Africa)"},
	{Name: "卡萨布兰卡 (Casablanca) - 摩洛哥", Group: "北非地区 (North Africa)"},
	{Name: "丹吉尔 (Tangier Med) - 摩洛哥", Group: "北非地区 (North Africa)"},
	{Name: "阿尔及尔 (Algiers) - 阿尔及利亚", Group: "北非地区 (North Africa)"},
	{Name: "奥兰 (Oran) - 阿尔及利亚", Group: "北非地区 (North Africa)"},
	{Name: "突尼斯 (Tunis/La Goulette) - 突尼斯", Group: "北非地区 (North Africa)"},
	{Name: "米苏拉塔 (Misrata) - 利比亚", Group: "北非地区 (North Africa)"},
	{Name: "班加西 (Benghazi) - 利比亚", Group: "北非地区 (North Africa)"},
	{Name: "的黎波里 (Tripoli) - 利比亚", Group: "北非地区 (North Africa)"},
	{Name: "吉布提 (Djibouti) - 吉布提", Group: "东非及南非 (East & South Africa)"},
	{Name: "蒙巴萨 (Mombasa) - 肯尼亚", Group: "东非及南非 (East & South Africa)"},
	{Name: "达累斯萨拉姆 (Dar es Salaam) - 坦桑尼亚", Group: "东非及南非 (East & South Africa)"},
	{Name: "德班 (Durban) - 南非", Group: "东非及南非 (East & South Africa)"},
	{Name: "伊丽莎白港 (Port Elizabeth) - 南非", Group: "东非及南非 (East & South Africa)"},
	{Name: "开普敦 (Cape Town) - 南非", Group: "东非及南非 (East & South Africa)"},
	{Name: "罗安达 (Luanda) - 安哥拉", Group: "东非及南非 (East & South Africa)"},
	{Name: "洛比托 (Lobito) - 安哥拉", Group: "东非及南非 (East & South Africa)"},
	{Name: "马普托 (Maputo) - 莫桑比克", Group: "东非及南非 (East & South Africa)"},
	{Name: "贝拉 (Beira) - 莫桑比克", Group: "东非及南非 (East & South Africa)"},
	{Name: "鲸湾港 (Walvis Bay) - 纳米比亚", Group: "东非及南非 (East & South Africa)"},
	{Name: "塔马塔夫 (Toamasina) - 马达加斯加", Group: "东非及南非 (East & South Africa)"},
	{Name: "摩加迪沙 (Mogadishu) - 索马里", Group: "东非及南非 (East & South Africa)"},
	{Name: "苏丹港 (Port Sudan) - 苏丹", Group: "东非及南非 (East & South Africa)"},
	{Name: "杰贝阿里 (Jebel Ali, Dubai) - 阿联酋", Group: "中东地区 (Middle East)"},
	{Name: "哈利法港 (Khalifa, Abu Dhabi) - 阿联酋", Group: "中东地区 (Middle East)"},
	{Name: "沙迦 (Sharjah) - 阿联酋", Group: "中东地区 (Middle East)"},
	{Name: "吉达 (Jeddah) - 沙特阿拉伯", Group: "中东地区 (Middle East)"},
	{Name: "达曼 (Dammam) - 沙特阿拉伯", Group: "中东地区 (Middle East)"},
	{Name: "利雅得 (Riyadh Dry Port) - 沙特阿拉伯", Group: "中东地区 (Middle East)"},
	{Name: "多哈 (Hamad, Doha) - 卡塔尔", Group: "中东地区 (Middle East)"},
	{Name: "阿卡巴 (Aqaba) - 约旦", Group: "中东地区 (Middle East)"},
	{Name: "科威特港 (Shuaiba/Shuwaikh) - 科威特", Group: "中东地区 (Middle East)"},
	{Name: "马斯喀特 (Muscat) - 阿曼", Group: "中东地区 (Middle East)"},
	{Name: "索哈 (Sohar) - 阿曼", Group: "中东地区 (Middle East)"},
	{Name: "萨拉拉 (Salalah) - 阿曼", Group: "中东地区 (Middle East)"},
	{Name: "巴林 (Hidd, Bahrain) - 巴林", Group: "中东地区 (Middle East)"},
	{Name: "乌姆卡斯尔 (Umm Qasr) - 伊拉克", Group: "中东地区 (Middle East)"},
	{Name: "阿巴斯港 (Bandar Abbas) - 伊朗", Group: "中东地区 (Middle East)"},
	{Name: "贝鲁特 (Beirut) - 黎巴嫩", Group: "中东地区 (Middle East)"},
	{Name: "塔什干 (Tashkent) - 乌兹别克斯坦", Group: "中亚及内陆 (Central Asia - 陆运/多式联运)"},
	{Name: "撒马尔罕 (Samarkand) - 乌兹别克斯坦", Group: "中亚及内陆 (Central Asia - 陆运/多式联运)"},
	{Name: "安集延 (Andijan) - 乌兹别克斯坦", Group: "中亚及内陆 (Central Asia - 陆运/多式联运)"},
	{Name: "阿拉木图 (Almaty) - 哈萨克斯坦", Group: "中亚及内陆 (Central Asia - 陆运/多式联运)"},
	{Name: "阿斯塔纳 (Astana) - 哈萨克斯坦", Group: "中亚及内陆 (Central Asia - 陆运/多式联运)"},
	{Name: "阿克套 (Aktau) - 哈萨克斯坦", Group: "中亚及内陆 (Central Asia - 陆运/多式联运)"},
	{Name: "比什凯克 (Bishkek) - 吉尔吉斯斯坦", Group: "中亚及内陆 (Central Asia - 陆运/多式联运)"},
	{Name: "奥什 (Osh) - 吉尔吉斯斯坦", Group: "中亚及内陆 (Central Asia - 陆运/多式联运)"},
	{Name: "杜尚别 (Dushanbe) - 塔吉克斯坦", Group: "中亚及内陆 (Central Asia - 陆运/多式联运)"},
	{Name: "阿什哈巴德 (Ashgabat) - 土库曼斯坦", Group: "中亚及内陆 (Central Asia - 陆运/多式联运)"},
	{Name: "土库曼巴希 (Turkmenbashi) - 土库曼斯坦", Group: "中亚及内陆 (Central Asia - 陆运/多式联运)"},
	{Name: "乌兰巴托 (Ulaanbaatar) - 蒙古", Group: "中亚及内陆 (Central Asia - 陆运/多式联运)"},
	{Name: "莫斯科 (Moscow) - 俄罗斯", Group: "俄罗斯及东欧 (Russia & CIS)"},
	{Name: "圣彼得堡 (St. Petersburg) - 俄罗斯", Group: "俄罗斯及东欧 (Russia & CIS)"},
	{Name: "新西伯利亚 (Novosibirsk) - 俄罗斯", Group: "俄罗斯及东欧 (Russia & CIS)"},
	{Name: "海参崴 (Vladivostok) - 俄罗斯", Group: "俄罗斯及东欧 (Russia & CIS)"},
	{Name: "新罗西斯克 (Novorossiysk) - 俄罗斯", Group: "俄罗斯及东欧 (Russia & CIS)"},
	{Name: "波季 (Poti) - 格鲁吉亚", Group: "俄罗斯及东欧 (Russia & CIS)"},
	{Name: "巴统 (Batumi) - 格鲁吉亚", Group: "俄罗斯及东欧 (Russia & CIS)"},
	{Name: "巴库 (Baku) - 阿塞拜疆", Group: "俄罗斯及东欧 (Russia & CIS)"},
	{Name: "埃里温 (Yerevan) - 亚美尼亚", Group: "俄罗斯及东欧 (Russia & CIS)"},
	{Name: "明斯克 (Minsk) - 白俄罗斯", Group: "俄罗斯及东欧 (Russia & CIS)"},
	{Name: "卡拉奇 (Karachi) - 巴基斯坦", Group: "南亚及东南亚 (South & SE Asia)"},
	{Name: "瓜达尔 (Gwadar) - 巴基斯坦", Group: "南亚及东南亚 (South & SE Asia)"},
	{Name: "科伦坡 (Colombo) - 斯里兰卡", Group: "南亚及东南亚 (South & SE Asia)"},
	{Name: "孟买 (Nhava Sheva/Mumbai) - 印度", Group: "南亚及东南亚 (South & SE Asia)"},
	{Name: "钦奈 (Chennai) - 印度", Group: "南亚及东南亚 (South & SE Asia)"},
	{Name: "吉大港 (Chittagong) - 孟加拉国", Group: "南亚及东南亚 (South & SE Asia)"},
	{Name: "曼谷 (Bangkok) - 泰国", Group: "南亚及东南亚 (South & SE Asia)"},
	{Name: "林查班 (Laem Chabang) - Thailand", Group: "南亚及东南亚 (South & SE Asia)"},
	{Name: "胡志明 (Ho Chi Minh) - 越南", Group: "南亚及东南亚 (South & SE Asia)"},
	{Name: "马尼拉 (Manila) - 菲律宾", Group: "南亚及东南亚 (South & SE Asia)"},
	{Name: "雅加达 (Jakarta) - 印度尼西亚", Group: "南亚及东南亚 (South & SE Asia)"},
	{Name: "巴生港 (Port Klang) - 马来西亚", Group: "南亚及东南亚 (South & SE Asia)"},
	{Name: "新加坡 (Singapore)", Group: "南亚及东南亚 (South & SE Asia)"},
}
